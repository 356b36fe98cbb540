package docs

const (
	PermRevisionRead     = "revision:read"
	PermRevisionWrite    = "revision:write"
	PermRevisionArchive  = "revision:archive"
	PermAssignmentRead   = "assignment:read"
	PermAssignmentWrite  = "assignment:write"
	PermAssignmentReview = "assignment:review"
	PermAdminUnlock      = "admin:unlock"
	PermSummaryRead      = "summary:read"
	PermAuditRead        = "audit:read"
)

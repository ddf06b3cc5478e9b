package contextkeys

type contextKey string

const (
	UserIDKey   contextKey = "UserID"
	UserRoleKey contextKey = "UserRole"
	BranchIDKey contextKey = "BranchID"
	AreaKey     contextKey = "Area"
)

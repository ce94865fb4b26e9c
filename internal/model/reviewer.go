package model

// Reviewer identity table columns
const (
	ColumnUsername = "Username"
	ColumnPassword = "Password"
)

// Reviewer is a row of the reviewer identity table
type Reviewer struct {
	Username string
	Password string
}

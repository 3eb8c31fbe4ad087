package model

// StudentID uniquely identifies a student record
type StudentID int64

// Student is a managed student record
type Student struct {
	ID StudentID
	StudentFields
}

// StudentFields holds the mutable fields of a Student.
// Create and update only ever accept this type, never a full Student,
// so the ID cannot be rewritten from form input.
type StudentFields struct {
	FirstName string
	LastName  string
	Email     string // empty when not provided
	Age       *int   // nil when not provided
	City      string
}

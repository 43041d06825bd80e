package quiz

// Policy decides whether a user may read, edit or delete a quiz.
type Policy interface {
	CanAccess(userID string, quiz Quiz) bool
}

// OwnerPolicy only admits the user that created the quiz.
type OwnerPolicy struct{}

func (OwnerPolicy) CanAccess(userID string, quiz Quiz) bool {
	return userID != "" && userID == quiz.OwnerID
}

type PolicyFunc func(userID string, quiz Quiz) bool

func (f PolicyFunc) CanAccess(userID string, quiz Quiz) bool {
	return f(userID, quiz)
}

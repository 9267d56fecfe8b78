package domain

// Result is the settled outcome of a hand
type Result string

const (
	ResultNone Result = "none"
	ResultWin  Result = "win"
	ResultLose Result = "lose"
	ResultPush Result = "push"
)

// Complement returns the outcome from the other side of the table
func (r Result) Complement() Result {
	switch r {
	case ResultWin:
		return ResultLose
	case ResultLose:
		return ResultWin
	default:
		return r
	}
}

package domain

type UserSettings struct {
	UserID       int64
	SummaryStyle string
}

package result

import "time"

type ExchangeResult struct {
	Id            string
	RequesterId   string
	RequesterName string
	TargetUserId  string
	TargetName    string
	SkillsOffered []string
	SkillsWanted  []string
	Message       string
	Status        string
	IsVisible     bool
	CreatedAt     time.Time
}

package dto

type CreateExchangeDTO struct {
	ExchangeId    string
	RequesterId   string
	TargetUserId  string
	SkillsOffered []string
	SkillsWanted  []string
	Message       string
}

type RespondExchangeDTO struct {
	ExchangeId string
	ActorId    string
	Accept     bool
}

type CompleteExchangeDTO struct {
	ExchangeId string
	ActorId    string
}

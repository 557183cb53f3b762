package dto

type RoleSlotDTO struct {
	RoleName         string
	RequiredSkills   []string
	NumberOfOpenings int
}

type CreateProjectDTO struct {
	ProjectId   string
	OwnerId     string
	Title       string
	Description string
	Roles       []RoleSlotDTO
}

type SubmitJoinRequestDTO struct {
	RequestId string
	ProjectId string
	UserId    string
	RoleName  string
}

type RespondJoinRequestDTO struct {
	ProjectId string
	RequestId string
	ActorId   string
	Accept    bool
}

type SetProjectStatusDTO struct {
	ProjectId string
	ActorId   string
	Status    string
}

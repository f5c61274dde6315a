package dto

type CreateMemberRequest struct {
	Name string `json:"name"`
}

package dto

import (
	"time"

	"umrahcrm/internal/domains/user/model"
	"umrahcrm/shared"
	gDto "umrahcrm/shared/dto"
)

type UserResponse struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Email             string       `json:"email"`
	Phone             string       `json:"phone"`
	City              string       `json:"city"`
	Country           string       `json:"country"`
	HasPerformedUmrah bool         `json:"has_performed_umrah"`
	IsTechDriven      bool         `json:"is_tech_driven"`
	Qualification     string       `json:"qualification"`
	VideoUploaded     bool         `json:"video_uploaded"`
	VideoURL          string       `json:"video_url,omitempty"`
	ContractSigned    bool         `json:"contract_signed"`
	ContractURL       string       `json:"contract_url,omitempty"`
	Role              string       `json:"role"`
	Status            model.Status `json:"status"`
	NextStep          string       `json:"next_step"`
	LastLogin         *time.Time   `json:"last_login,omitempty"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(user model.User) {
	r.ID = user.ID
	r.Name = user.Name
	r.Email = user.Email
	r.Phone = user.Phone
	r.City = user.City
	r.Country = user.Country
	r.HasPerformedUmrah = user.HasPerformedUmrah
	r.IsTechDriven = user.IsTechDriven
	r.Qualification = user.Qualification
	r.VideoUploaded = user.VideoUploaded
	r.VideoURL = user.VideoURL
	r.ContractSigned = user.ContractSigned
	r.ContractURL = user.ContractURL
	r.Role = user.Role
	r.Status = user.Status
	r.NextStep = user.Status.NextStep()
	r.LastLogin = user.LastLogin
	r.Metadata = gDto.NewMetadata(user.Metadata)
}

type GetUsersResponse struct {
	Users     []UserResponse `json:"users"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetUsersResponse) FromModels(users []model.User, params gDto.QueryParams) {
	r.TotalData = len(users)
	r.TotalPage = shared.CalculateTotalPage(r.TotalData, params.Limit)

	page := gDto.Paginate(users, params)

	r.Users = make([]UserResponse, len(page))
	for i, user := range page {
		r.Users[i].FromModel(user)
	}
}

type UserFilter struct {
	Status model.Status `json:"status" validate:"omitempty,enum"`
	Role   string       `json:"role"   validate:"omitempty,oneof=admin consultant"`
}

func (f UserFilter) Map() map[string]string {
	return map[string]string{
		"status": string(f.Status),
		"role":   f.Role,
	}
}

func (f UserFilter) Match(user model.User) bool {
	return (f.Status == "" || user.Status == f.Status) && (f.Role == "" || user.Role == f.Role)
}

// UploadVideoRequest takes either an uploaded recording or a hosted link such as Loom.
type UploadVideoRequest struct {
	VideoURL string     `json:"video_url" validate:"omitempty,url"`
	File     *gDto.File `json:"-"`
}

type UploadContractRequest struct {
	ContractURL string     `json:"contract_url" validate:"omitempty,url"`
	File        *gDto.File `json:"-"`
}

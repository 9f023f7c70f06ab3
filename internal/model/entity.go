package model

// SubmitRequest is the transcript submission body. TeamMemberID is either an existing
// team member id or "new".
type SubmitRequest struct {
	Transcript        string `json:"transcript" form:"transcript"`
	TeamMemberID      string `json:"team_member_id" form:"team_member_id"`
	NewTeamMemberName string `json:"new_team_member_name" form:"new_team_member_name"`
	SessionDate       string `json:"session_date" form:"session_date"`
}

type SubmitResponse struct {
	Message string           `json:"message"`
	Data    *CoachingSession `json:"data,omitempty"`
	Issues  []string         `json:"issues,omitempty"`
}

type UpdateActionItemsRequest struct {
	ActionItems []ActionItem `json:"action_items"`
}

type UpdateActionItemsResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type CreateTeamMemberRequest struct {
	Name string `json:"name"`
}

type TeamMemberDetails struct {
	TeamMember *TeamMember       `json:"team_member"`
	Sessions   []CoachingSession `json:"sessions"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type User struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

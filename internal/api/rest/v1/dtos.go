package v1

import (
	"time"

	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/domain/users"
	"github.com/ShiroyamaY/tms/internal/pkg/validators"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// DetailResponse carries a single error or status message
type DetailResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}

// LiveResponse is returned by the health probes
type LiveResponse struct {
	Live bool `json:"live"`
}

// UserResponse is the public part of an account
type UserResponse struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Username  string `json:"username"`
}

// NewUserResponse maps a user without its password hash
func NewUserResponse(u *users.User) UserResponse {
	return UserResponse{FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, Username: u.Username}
}

// RegisterResponse is the new account with its first token pair
type RegisterResponse struct {
	User    UserResponse `json:"user"`
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
}

// TokenRequest exchanges credentials for tokens
type TokenRequest struct {
	Username *string `json:"username" validate:"required"`
	Password *string `json:"password" validate:"required"`
}

// Validate for validating TokenRequest struct
func (r *TokenRequest) Validate() error {
	return validators.Struct(validators.New(), r)
}

// TokenPairResponse holds an access and a refresh token
type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RefreshRequest renews an access token
type RefreshRequest struct {
	Refresh *string `json:"refresh" validate:"required"`
}

// Validate for validating RefreshRequest struct
func (r *RefreshRequest) Validate() error {
	return validators.Struct(validators.New(), r)
}

// AccessResponse holds a renewed access token
type AccessResponse struct {
	Access string `json:"access"`
}

// UserListItem is one entry of the user listing
type UserListItem struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
}

// LoggedTimeResponse reports minutes logged in a period
type LoggedTimeResponse struct {
	TotalMinutes int `json:"total_minutes"`
}

// TaskResponse is returned after creating a task
type TaskResponse struct {
	ID          uint         `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      tasks.Status `json:"status"`
}

// NewTaskResponse maps a task
func NewTaskResponse(t *tasks.Task) TaskResponse {
	return TaskResponse{ID: t.ID, Title: t.Title, Description: t.Description, Status: t.Status}
}

// TaskUpdateResponse is returned after updating a task
type TaskUpdateResponse struct {
	TaskResponse
	Assignee uint `json:"assignee"`
}

// NewTaskUpdateResponse maps a task including its assignee
func NewTaskUpdateResponse(t *tasks.Task) TaskUpdateResponse {
	return TaskUpdateResponse{TaskResponse: NewTaskResponse(t), Assignee: t.AssigneeID}
}

// TaskUpdateRequest carries the fields of PUT and PATCH requests
type TaskUpdateRequest struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Status      *tasks.Status `json:"status"`
	Assignee    *uint         `json:"assignee"`
}

// ValidateFull checks that a full replacement names every required field
func (r *TaskUpdateRequest) ValidateFull() error {
	verr := &validators.ValidationError{}
	if r.Title == nil {
		verr.Add("title", "This field is required.")
	}
	if r.Assignee == nil {
		verr.Add("assignee", "This field is required.")
	}
	return verr.OrNil()
}

// ToDomain converts the request into a partial task update
func (r *TaskUpdateRequest) ToDomain() *tasks.TaskUpdate {
	return &tasks.TaskUpdate{Title: r.Title, Description: r.Description, Status: r.Status, AssigneeID: r.Assignee}
}

// TaskListItem is one entry of the task listing
type TaskListItem struct {
	ID                 uint   `json:"id"`
	Title              string `json:"title"`
	TotalLoggedMinutes int    `json:"total_logged_minutes"`
}

// CommentResponse is a comment as shown on its own and inside a task
type CommentResponse struct {
	Text   string `json:"text"`
	Task   uint   `json:"task"`
	Author uint   `json:"author"`
}

// NewCommentResponse maps a comment
func NewCommentResponse(c *tasks.Comment) CommentResponse {
	return CommentResponse{Text: c.Text, Task: c.TaskID, Author: c.AuthorID}
}

// TaskDetailResponse is a task with its comments
type TaskDetailResponse struct {
	TaskUpdateResponse
	Comments []CommentResponse `json:"comments"`
}

// TaskCompleteResponse is returned after completing a task
type TaskCompleteResponse struct {
	ID     uint         `json:"id"`
	Status tasks.Status `json:"status"`
}

// AssignUserRequest names the new assignee
type AssignUserRequest struct {
	Assignee *uint `json:"assignee" validate:"required"`
}

// Validate for validating AssignUserRequest struct
func (r *AssignUserRequest) Validate() error {
	return validators.Struct(validators.New(), r)
}

// AssignUserResponse is returned after assigning a task
type AssignUserResponse struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Assignee uint   `json:"assignee"`
}

// TopTaskResponse is one entry of the top logged tasks
type TopTaskResponse struct {
	ID           uint   `json:"id"`
	Title        string `json:"title"`
	TotalMinutes int    `json:"total_minutes"`
}

// CommentCreateRequest is the input for a new comment
type CommentCreateRequest struct {
	Text string `json:"text"`
	Task *uint  `json:"task" validate:"required"`
}

// Validate for validating CommentCreateRequest struct
func (r *CommentCreateRequest) Validate() error {
	return validators.Struct(validators.New(), r)
}

// TimerStartRequest starts a timer; a missing start_time means now
type TimerStartRequest struct {
	Task      *uint      `json:"task" validate:"required"`
	StartTime *time.Time `json:"start_time"`
}

// Validate for validating TimerStartRequest struct
func (r *TimerStartRequest) Validate() error {
	return validators.Struct(validators.New(), r)
}

// TimerStartResponse is returned after starting a timer
type TimerStartResponse struct {
	ID        uint       `json:"id"`
	Task      uint       `json:"task"`
	StartTime *time.Time `json:"start_time"`
}

// TimerStopRequest stops the caller's running timer on a task
type TimerStopRequest struct {
	Task    *uint      `json:"task" validate:"required"`
	EndTime *time.Time `json:"end_time" validate:"required"`
}

// Validate for validating TimerStopRequest struct
func (r *TimerStopRequest) Validate() error {
	return validators.Struct(validators.New(), r)
}

// TimerStopResponse is returned after stopping a timer
type TimerStopResponse struct {
	ID              uint `json:"id"`
	Task            uint `json:"task"`
	DurationMinutes *int `json:"duration_minutes"`
}

// LogDateRequest records minutes spent on a date
type LogDateRequest struct {
	Task            *uint  `json:"task" validate:"required"`
	Date            string `json:"date" validate:"required"`
	DurationMinutes *int   `json:"duration_minutes" validate:"required"`
}

// ToDomain validates the request and parses its date
func (r *LogDateRequest) ToDomain() (*tasks.DateLog, error) {
	if err := validators.Struct(validators.New(), r); err != nil {
		return nil, err
	}
	date, err := time.Parse(DateLayout, r.Date)
	if err != nil {
		return nil, validators.NewFieldError("date", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
	}
	return &tasks.DateLog{TaskID: *r.Task, Date: date, DurationMinutes: *r.DurationMinutes}, nil
}

// LogDateResponse echoes a logged date
type LogDateResponse struct {
	Task            uint   `json:"task"`
	Date            string `json:"date"`
	DurationMinutes int    `json:"duration_minutes"`
}

// TimeLogResponse is a time log with every field
type TimeLogResponse struct {
	ID              uint       `json:"id"`
	User            uint       `json:"user"`
	Task            uint       `json:"task"`
	StartTime       *time.Time `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	Date            *string    `json:"date"`
	DurationMinutes *int       `json:"duration_minutes"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewTimeLogResponse maps a time log
func NewTimeLogResponse(l *tasks.TimeLog) TimeLogResponse {
	resp := TimeLogResponse{
		ID:              l.ID,
		User:            l.UserID,
		Task:            l.TaskID,
		StartTime:       l.StartTime,
		EndTime:         l.EndTime,
		DurationMinutes: l.DurationMinutes,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
	if l.Date != nil {
		d := l.Date.Format(DateLayout)
		resp.Date = &d
	}
	return resp
}

// AttachmentUploadRequest asks for a presigned upload URL
type AttachmentUploadRequest struct {
	Task        *uint  `json:"task" validate:"required"`
	Filename    string `json:"filename" validate:"required"`
	ContentType string `json:"content_type"`
}

// Validate for validating AttachmentUploadRequest struct
func (r *AttachmentUploadRequest) Validate() error {
	return validators.Struct(validators.New(), r)
}

// AttachmentResponse is an attachment record
type AttachmentResponse struct {
	ID          uint                   `json:"id"`
	Task        uint                   `json:"task"`
	Filename    string                 `json:"filename"`
	Status      tasks.AttachmentStatus `json:"status"`
	Bucket      string                 `json:"bucket"`
	ContentType string                 `json:"content_type"`
	ObjectName  string                 `json:"object_name"`
	URL         string                 `json:"url,omitempty"`
	UploadURL   string                 `json:"upload_url,omitempty"`
}

// NewAttachmentResponse maps an attachment
func NewAttachmentResponse(a *tasks.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:          a.ID,
		Task:        a.TaskID,
		Filename:    a.Filename,
		Status:      a.Status,
		Bucket:      a.Bucket,
		ContentType: a.ContentType,
		ObjectName:  a.ObjectName,
	}
}

// StorageEvent is a bucket notification as sent by MinIO and S3
type StorageEvent struct {
	EventName string `json:"EventName"`
	Key       string `json:"Key"`
	Records   []struct {
		EventName string `json:"eventName"`
		S3        struct {
			Bucket struct {
				Name string `json:"name"`
			} `json:"bucket"`
			Object struct {
				Key string `json:"key"`
			} `json:"object"`
		} `json:"s3"`
	} `json:"Records"`
}

// WebhookResponse reports how many attachments were marked uploaded
type WebhookResponse struct {
	Updated int `json:"updated"`
}

package v1

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ShiroyamaY/tms/internal/domain/tasks"
	"github.com/ShiroyamaY/tms/internal/pkg/logger"
	"github.com/ShiroyamaY/tms/internal/pkg/validators"
	"github.com/gin-gonic/gin"
)

// objectCreatedPrefix marks the bucket events that complete an upload
const objectCreatedPrefix = "s3:ObjectCreated:"

// AttachmentHandler defines the interface for handling attachment-related operations
type AttachmentHandler interface {
	List(ctx *gin.Context)
	Create(ctx *gin.Context)
	Webhook(ctx *gin.Context)
}

type attachmentHandler struct {
	attachmentService tasks.AttachmentService
	webhookToken      string
	maxUploadBytes    int64
	logger            logger.Logger
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(attachmentService tasks.AttachmentService, webhookToken string, maxUploadBytes int64, logger logger.Logger) AttachmentHandler {
	return &attachmentHandler{
		attachmentService: attachmentService,
		webhookToken:      webhookToken,
		maxUploadBytes:    maxUploadBytes,
		logger:            logger,
	}
}

// List returns attachments with download URLs, optionally of a single task
func (handler *attachmentHandler) List(ctx *gin.Context) {
	taskID, err := queryID(ctx, "task")
	if err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	list, err := handler.attachmentService.List(ctx.Request.Context(), taskID)
	if err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	resp := make([]AttachmentResponse, 0, len(list))
	for _, v := range list {
		item := NewAttachmentResponse(&v.Attachment)
		item.URL = v.URL
		resp = append(resp, item)
	}
	ctx.JSON(http.StatusOK, resp)
}

// Create uploads a multipart file, or for a JSON body returns a presigned upload URL
func (handler *attachmentHandler) Create(ctx *gin.Context) {
	if strings.HasPrefix(ctx.ContentType(), "multipart/") {
		handler.upload(ctx)
		return
	}

	var req AttachmentUploadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	attachment, uploadURL, err := handler.attachmentService.RequestUpload(ctx.Request.Context(), *req.Task, req.Filename, req.ContentType)
	if err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	resp := NewAttachmentResponse(attachment)
	resp.UploadURL = uploadURL
	ctx.JSON(http.StatusCreated, resp)
}

func (handler *attachmentHandler) upload(ctx *gin.Context) {
	if ctx.Request.ContentLength > handler.maxUploadBytes {
		ctx.JSON(http.StatusRequestEntityTooLarge, DetailResponse{Detail: "Uploaded file is too large."})
		return
	}
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, handler.maxUploadBytes)

	file, err := ctx.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ctx.JSON(http.StatusRequestEntityTooLarge, DetailResponse{Detail: "Uploaded file is too large."})
			return
		}
		respondError(ctx, handler.logger, validators.NewFieldError("file", "No file was submitted."))
		return
	}

	taskID, err := strconv.ParseUint(ctx.PostForm("task"), 10, 64)
	if err != nil {
		respondError(ctx, handler.logger, validators.NewFieldError("task", "This field is required."))
		return
	}

	body, err := file.Open()
	if err != nil {
		respondError(ctx, handler.logger, err)
		return
	}
	defer body.Close()

	contentType := file.Header.Get("Content-Type")
	attachment, err := handler.attachmentService.Upload(ctx.Request.Context(), uint(taskID), file.Filename, contentType, body, file.Size)
	if err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	ctx.JSON(http.StatusCreated, NewAttachmentResponse(attachment))
}

// Webhook receives bucket notifications and marks finished uploads
func (handler *attachmentHandler) Webhook(ctx *gin.Context) {
	token := ctx.GetHeader("Authorization")
	if handler.webhookToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(handler.webhookToken)) != 1 {
		ctx.JSON(http.StatusUnauthorized, DetailResponse{Detail: "Invalid Minio webhook token"})
		return
	}

	var event StorageEvent
	if err := ctx.ShouldBindJSON(&event); err != nil {
		respondBindError(ctx, err)
		return
	}

	keys := make([]string, 0, len(event.Records))
	for _, record := range event.Records {
		if !strings.HasPrefix(record.EventName, objectCreatedPrefix) {
			continue
		}
		key, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			handler.logger.Warn("Skipping undecodable object key ", record.S3.Object.Key)
			continue
		}
		keys = append(keys, key)
	}

	updated, err := handler.attachmentService.MarkUploaded(ctx.Request.Context(), keys)
	if err != nil {
		respondError(ctx, handler.logger, err)
		return
	}

	ctx.JSON(http.StatusOK, WebhookResponse{Updated: updated})
}

package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/portfolio/config"
	"github.com/cppla/portfolio/models"
	"github.com/cppla/portfolio/utils"
)

// ContactController handles the public contact form and the admin inbox.
type ContactController struct {
	db *gorm.DB
}

// NewContactController creates a new ContactController instance.
func NewContactController(db *gorm.DB) *ContactController {
	return &ContactController{db: db}
}

type contactRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=100"`
	Email   string `json:"email" binding:"required,email,max=255"`
	Subject string `json:"subject" binding:"max=200"`
	Message string `json:"message" binding:"required,min=10,max=5000"`
	Company string `json:"company" binding:"max=200"`
	Budget  string `json:"budget" binding:"max=64"`
	// Website is a honeypot: hidden from humans, filled by form bots.
	Website string `json:"website"`
	// StartedAt is when the form was rendered, in unix milliseconds.
	StartedAt     int64  `json:"started_at"`
	CaptchaID     string `json:"captcha_id"`
	CaptchaAnswer string `json:"captcha_answer"`
}

// Submit stores a contact message and notifies the site owner by email in the background.
func (c *ContactController) Submit(ctx *gin.Context) {
	var req contactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BindError(ctx, 40060, err)
		return
	}

	// Bots get the same answer as humans so they do not learn to skip the field
	if strings.TrimSpace(req.Website) != "" {
		utils.Sugar.Infow("contact honeypot triggered", "ip", ctx.ClientIP())
		utils.Created(ctx, gin.H{"message": "message received", "id": 0})
		return
	}

	cfg := config.Get()
	if req.StartedAt > 0 {
		elapsed := time.Since(time.UnixMilli(req.StartedAt))
		if elapsed < time.Duration(cfg.ContactMinFillSeconds)*time.Second {
			utils.Error(ctx, http.StatusBadRequest, 40061, "form submitted too quickly")
			return
		}
	}

	if cfg.ContactCaptchaEnabled && !utils.VerifyCaptcha(strings.TrimSpace(req.CaptchaID), strings.TrimSpace(req.CaptchaAnswer)) {
		utils.Error(ctx, http.StatusBadRequest, 40062, "invalid captcha")
		return
	}

	userAgent := ctx.Request.UserAgent()
	if len(userAgent) > 512 {
		userAgent = userAgent[:512]
	}
	contact := models.Contact{
		Name:      utils.StripTags(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Subject:   utils.StripTags(req.Subject),
		Message:   utils.StripTags(req.Message),
		Company:   utils.StripTags(req.Company),
		Budget:    utils.StripTags(req.Budget),
		Status:    models.ContactStatusNew,
		IP:        ctx.ClientIP(),
		UserAgent: userAgent,
	}
	if len(contact.Message) < 10 {
		utils.Error(ctx, http.StatusBadRequest, 40063, "message is too short")
		return
	}

	if err := c.db.Create(&contact).Error; err != nil {
		respondWriteError(ctx, err, 50060, "save message")
		return
	}

	if cfg.ContactNotifyEmail != "" {
		utils.SendMailAsync(contactNotification(cfg, contact))
	}

	utils.Created(ctx, gin.H{"message": "message received", "id": contact.ID})
}

func contactNotification(cfg config.AppConfig, contact models.Contact) utils.Mail {
	subject := contact.Subject
	if subject == "" {
		subject = "New message"
	}
	var body strings.Builder
	fmt.Fprintf(&body, "From: %s <%s>\n", contact.Name, contact.Email)
	if contact.Company != "" {
		fmt.Fprintf(&body, "Company: %s\n", contact.Company)
	}
	if contact.Budget != "" {
		fmt.Fprintf(&body, "Budget: %s\n", contact.Budget)
	}
	fmt.Fprintf(&body, "\n%s\n\n%s/admin/contacts/%d\n", contact.Message, cfg.BaseURL, contact.ID)

	return utils.Mail{
		To:      cfg.ContactNotifyEmail,
		ReplyTo: contact.Email,
		Subject: fmt.Sprintf("[%s] %s", cfg.SiteTitle, subject),
		Body:    body.String(),
	}
}

// Captcha returns a fresh captcha when the form requires one.
func (c *ContactController) Captcha(ctx *gin.Context) {
	if !config.Get().ContactCaptchaEnabled {
		utils.Success(ctx, gin.H{"enabled": false})
		return
	}
	id, b64, err := utils.GenerateCaptcha()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to generate captcha")
		return
	}
	utils.Success(ctx, gin.H{"enabled": true, "id": id, "image": b64})
}

// AdminList returns messages newest first; status and search filter.
func (c *ContactController) AdminList(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	query := c.db.Model(&models.Contact{})
	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := strings.TrimSpace(ctx.Query("search")); search != "" {
		like := likePattern(search)
		query = query.Where("name LIKE ? OR email LIKE ? OR subject LIKE ? OR message LIKE ?", like, like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to count messages")
		return
	}
	contacts := []models.Contact{}
	if err := query.Order("created_at DESC").Order("id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&contacts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50063, "failed to list messages")
		return
	}
	utils.Success(ctx, paginated(contacts, page, pageSize, total))
}

// AdminGet returns one message and moves it from new to read.
func (c *ContactController) AdminGet(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	var contact models.Contact
	if err := c.db.First(&contact, id).Error; err != nil {
		respondLoadError(ctx, err, 40460, 50064, "message")
		return
	}
	if contact.Status == models.ContactStatusNew {
		if err := c.db.Model(&contact).Update("status", models.ContactStatusRead).Error; err != nil {
			utils.Sugar.Warnw("mark contact read", "id", contact.ID, "err", err)
		} else {
			contact.Status = models.ContactStatusRead
		}
	}
	utils.Success(ctx, gin.H{"contact": contact})
}

// UpdateStatus moves a message to new, read, replied or archived.
func (c *ContactController) UpdateStatus(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required,oneof=new read replied archived"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.BindError(ctx, 40064, err)
		return
	}

	var contact models.Contact
	if err := c.db.First(&contact, id).Error; err != nil {
		respondLoadError(ctx, err, 40461, 50065, "message")
		return
	}
	if err := c.db.Model(&contact).Update("status", req.Status).Error; err != nil {
		respondWriteError(ctx, err, 50066, "update message")
		return
	}
	contact.Status = req.Status
	utils.Success(ctx, gin.H{"contact": contact})
}

// Delete removes a message.
func (c *ContactController) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}
	res := c.db.Delete(&models.Contact{}, id)
	if res.Error != nil {
		respondWriteError(ctx, res.Error, 50067, "delete message")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40462, "message not found")
		return
	}
	utils.Success(ctx, gin.H{"message": "message deleted"})
}

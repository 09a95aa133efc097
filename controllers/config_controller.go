package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/portfolio/config"
	"github.com/cppla/portfolio/utils"
)

// ConfigController serves the public, configuration-driven site settings the frontend needs at boot.
type ConfigController struct{}

func NewConfigController() *ConfigController { return &ConfigController{} }

// GetSite returns site metadata, the owner profile and contact form behaviour.
func (c *ConfigController) GetSite(ctx *gin.Context) {
	cfg := config.Get()
	utils.Success(ctx, gin.H{
		"title":       cfg.SiteTitle,
		"description": cfg.SiteDescription,
		"base_url":    cfg.BaseURL,
		"feed_url":    buildURL(cfg.BaseURL, "feed.xml"),
		"profile":     ProfileFromConfig(cfg),
		"contact": gin.H{
			"captcha_enabled":  cfg.ContactCaptchaEnabled,
			"min_fill_seconds": cfg.ContactMinFillSeconds,
		},
	})
}

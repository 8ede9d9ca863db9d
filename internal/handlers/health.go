package handlers

import (
	"github.com/gofiber/fiber/v2"

	"kharcha/internal/repositories"
)

func HealthCheck(c *fiber.Ctx) error {
	dbStatus := "connected"
	if repositories.DB == nil {
		dbStatus = "down"
	} else if sqlDB, err := repositories.DB.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "down"
	}

	redisStatus := "connected"
	if repositories.CacheService == nil {
		redisStatus = "down"
	} else if err := repositories.CacheService.HealthCheck(c.Context()); err != nil {
		redisStatus = "down"
	}

	return c.JSON(fiber.Map{
		"status": "ok",
		"services": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
	})
}

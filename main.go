package main

import (
	"log"

	"lexi/config"
	"lexi/database"
	authRoutes "lexi/routers/authRoutes"
	contentRoutes "lexi/routers/contentRoutes"
	progressRoutes "lexi/routers/progressRoutes"
	userRoutes "lexi/routers/userRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()

	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve the built client from the public folder
	app.Static("/", "./public")

	authRoutes.SetupAuthRoutes(app, db)
	userRoutes.SetupUserRoutes(app, db)
	contentRoutes.SetupContentRoutes(app, db)
	progressRoutes.SetupProgressRoutes(app, db)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	err = app.Listen(":" + config.AppConfig.Port)
	database.Close(db)
	if err != nil {
		log.Fatal(err)
	}
}

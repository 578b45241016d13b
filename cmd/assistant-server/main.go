// Package main HR Assistant API Server
//
//	@title			HR Assistant API
//	@version		1.0
//	@description	A retrieval-augmented assistant for internal policy and HR questions
//
//	@contact.name	API Support
//
//	@host		localhost:8080
//	@BasePath	/
package main

import (
	"log"

	"github.com/joho/godotenv"

	_ "hr-assistant/docs" // This imports the docs package to initialize swagger
	"hr-assistant/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment defaults")
	}

	log.Println("Starting HR Assistant Server...")
	srv := server.NewServer()
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

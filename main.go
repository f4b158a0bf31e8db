package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/vietanh2810/lottery-api/cmd/app"
)

// @title           Lottery API
// @version         1.0
// @description     Periodic lottery draws: ballots, draw closing and prize allocation.
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token issued by the account service
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}

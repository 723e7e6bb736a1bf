package main

import "donation_backend/internal/app"

func main() {
	app.Run()
}

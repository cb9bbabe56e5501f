package main

import "travel_backend/internal/app"

func main() {
	app.Run()
}

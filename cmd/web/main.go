package main

import "printshop_backend/internal/app"

func main() {
	app.Run()
}

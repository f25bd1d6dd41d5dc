package main

import "nexusjob_backend/internal/app"

func main() {
	app.Run()
}

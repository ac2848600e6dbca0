// FilePath: cmd/main.go
package main

import (
	"fmt"
	"log"
	"os"

	tm "github.com/buger/goterm"
	nuts "github.com/vaudience/go-nuts"

	"github.com/hidrosense/hub/internal/config"
	"github.com/hidrosense/hub/internal/server"
)

func main() {
	// Clear console and draw logo
	ClearConsole()
	DrawLogo()
	// Initialize version info
	nuts.InitVersion()
	nuts.L.Infof("[Main] Starting HidroSense Hub v%s", nuts.GetVersion())

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create and start server
	srv := server.New(cfg)
	if err := srv.Start(); err != nil {
		nuts.L.Errorf("[Main] Server error: %v", err)
		os.Exit(1)
	}
}

// ClearConsole clears the console screen and draws the logo.
func ClearConsole() {
	tm.Clear()
	tm.MoveCursor(1, 1)
	tm.Flush()
}

func DrawLogo() {
	fmt.Println()
	lines := []string{
		"    __  ___     __           _____",
		"   / / / (_)___/ /________  / ___/___  ____  ________",
		"  / /_/ / / __  / ___/ __ \\ \\__ \\/ _ \\/ __ \\/ ___/ _ \\",
		" / __  / / /_/ / /  / /_/ /___/ /  __/ / / (__  )  __/",
		"/_/ /_/_/\\__,_/_/   \\____//____/\\___/_/ /_/____/\\___/",
		"......................................................  " + nuts.GetVersion(),
	}

	for _, line := range lines {
		fmt.Println(line)
	}
}

package main

import (
	"fmt"
	"log"
	"os"

	"webchat/backend/internal/config"
	"webchat/backend/internal/storage"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Small operational CLI against the persistent stores. The live coordinator
// is untouched by anything here; a deleted room disappears for new joins only.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	s := storage.NewStorageService(db, nil) // no redis needed for the admin CLI

	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "list-rooms":
		rooms, total, err := s.ListPublicRooms(1, 100, "")
		if err != nil {
			log.Fatalf("Error listing rooms: %v", err)
		}
		for _, r := range rooms {
			fmt.Printf("%s  %-20s  topic=%s  owner=%s  last_activity=%s\n",
				r.ID, r.Name, r.Topic, r.CreatedByID, r.LastActivity.Format("2006-01-02 15:04"))
		}
		fmt.Printf("%d room(s)\n", total)

	case "delete-room":
		if len(os.Args) != 3 {
			usage()
		}
		if err := s.DeleteRoom(os.Args[2]); err != nil {
			log.Fatalf("Error deleting room: %v", err)
		}
		fmt.Printf("Room %s deleted.\n", os.Args[2])

	case "delete-user":
		if len(os.Args) != 3 {
			usage()
		}
		if err := s.DeleteUser(os.Args[2]); err != nil {
			log.Fatalf("Error deleting user: %v", err)
		}
		fmt.Printf("User %s deleted.\n", os.Args[2])

	default:
		usage()
	}
}

func usage() {
	fmt.Println("Usage: admin <list-rooms | delete-room <room_id> | delete-user <user_id>>")
	os.Exit(1)
}

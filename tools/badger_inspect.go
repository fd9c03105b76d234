package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"hive-chat/domain"
	"hive-chat/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
)

// Prints the persisted presence records of a hive-chat database.
// Safe to run next to a live server: the database is opened read-only.
func main() {
	_ = godotenv.Load()
	dbPath := flag.String("db", os.Getenv("BADGER_FILEPATH"), "Path to badger DB")
	status := flag.String("status", "", "Only show this status (online, away, offline)")
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("missing -db or BADGER_FILEPATH")
	}

	db, err := badger.Open(badger.DefaultOptions(*dbPath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLogger(nil))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	var statuses []domain.Status
	if *status != "" {
		statuses = append(statuses, domain.Status(strings.ToLower(*status)))
	}
	records, err := repositories.NewPresenceRepository(db).List(context.Background(), statuses...)
	if err != nil {
		log.Fatal(err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"User", "Status", "Activity", "Room", "Transport", "Last activity", "Last seen"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	now := time.Now().UTC()
	for _, p := range records {
		room := "-"
		if p.CurrentRoomID != nil {
			room = *p.CurrentRoomID
		}
		transport := p.TransportID
		if len(transport) > 8 {
			transport = transport[:8]
		}
		table.Append([]string{
			p.UserID,
			colorStatus(p.Status),
			string(p.Activity),
			room,
			transport,
			since(now, p.LastActivity),
			p.LastSeen.Format(time.DateTime),
		})
	}
	table.Render()
	fmt.Printf("%d presence record(s)\n", len(records))
}

func colorStatus(status domain.Status) string {
	switch status {
	case domain.StatusOnline:
		return color.FgGreen.Render(string(status))
	case domain.StatusAway:
		return color.FgYellow.Render(string(status))
	default:
		return color.FgGray.Render(string(status))
	}
}

func since(now, t time.Time) string {
	return now.Sub(t).Truncate(time.Second).String() + " ago"
}

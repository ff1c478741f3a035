// Command smoketest exercises the backend client against a live MediSync
// API: login, profile, appointment partition, and the doctor directory.
// It mutates nothing.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/medisync/medisync-go/internal/medisync"
	"github.com/medisync/medisync-go/internal/schedule"
	"github.com/medisync/medisync-go/pkg/logging"
)

type staticToken string

func (t staticToken) Token(ctx context.Context) (string, error) { return string(t), nil }

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	baseURL := os.Getenv("MEDISYNC_API_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8000/api/v1"
	}
	email := os.Getenv("MEDISYNC_TEST_EMAIL")
	password := os.Getenv("MEDISYNC_TEST_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("MEDISYNC_TEST_EMAIL and MEDISYNC_TEST_PASSWORD are required")
	}

	logger := logging.New("warn")

	fmt.Println("[1] Logging in...")
	authClient, err := medisync.New(medisync.Config{BaseURL: baseURL, Logger: logger})
	if err != nil {
		log.Fatalf("    failed to create client: %v", err)
	}
	auth, err := authClient.Login(ctx, email, password)
	if err != nil {
		log.Fatalf("    login failed: %v", err)
	}
	fmt.Printf("    ok, role=%s\n", auth.Role)

	client, err := medisync.New(medisync.Config{
		BaseURL: baseURL,
		Tokens:  staticToken(auth.AccessToken),
		Logger:  logger,
	})
	if err != nil {
		log.Fatalf("    failed to create client: %v", err)
	}

	fmt.Println("[2] Fetching profile...")
	profile, err := client.Profile(ctx)
	if err != nil {
		log.Fatalf("    profile failed: %v", err)
	}
	fmt.Printf("    %s <%s>, balance %.2f\n", profile.Name, profile.Email, profile.Balance)

	fmt.Println("[3] Fetching appointments...")
	appts, err := client.PatientAppointments(ctx, "")
	if err != nil {
		log.Fatalf("    appointments failed: %v", err)
	}
	p := schedule.PartitionByTime(appts, time.Now())
	fmt.Printf("    %d total: %d upcoming, %d past\n", len(appts), len(p.Upcoming), len(p.Past))
	for _, a := range p.Upcoming {
		fmt.Printf("    upcoming #%d %s with %s\n", a.ID, a.Start.Format(time.RFC3339), a.DoctorName)
	}

	fmt.Println("[4] Fetching doctor directory...")
	doctors, err := client.Doctors(ctx, medisync.DoctorFilter{})
	if err != nil {
		log.Fatalf("    doctors failed: %v", err)
	}
	fmt.Printf("    %d doctors\n", len(doctors))

	fmt.Println("All checks passed")
}

//go:build manual

package drive

import (
	"context"
	"fmt"
	"os"
	"testing"
)

// TestRealDriveConnectivity tests real Google Drive connectivity.
// Run with: go test -tags=manual -v ./infrastructure/drive/... -run TestRealDriveConnectivity
func TestRealDriveConnectivity(t *testing.T) {
	credentialsPath := "../../oauth_credentials.json"
	tokenPath := "../../oauth_token.json"

	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		t.Skip("oauth_credentials.json not found - skipping real Drive test")
	}

	ctx := context.Background()

	client, err := NewClientWithOAuth(ctx, credentialsPath, tokenPath)
	if err != nil {
		t.Fatalf("Failed to create Drive client: %v", err)
	}

	email, err := client.UserEmail(ctx)
	if err != nil {
		t.Fatalf("Failed to fetch account info: %v", err)
	}

	fmt.Printf("\n=== Google Drive Connectivity Test ===\n")
	fmt.Printf("Successfully connected as %s\n\n", email)
}

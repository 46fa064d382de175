package config

import (
	"log/slog"
	"os"

	"cloud.google.com/go/storage"
)

var Storage *storage.Client
var Bucket string

// ConnectStorage initializes the Cloud Storage client used for receipt
// uploads. Credentials come from ADC (GOOGLE_APPLICATION_CREDENTIALS or the
// runtime service account).
func ConnectStorage() {
	Bucket = os.Getenv("GCS_BUCKET")
	if Bucket == "" {
		slog.Warn("environment variable GCS_BUCKET is not set, receipt uploads are disabled")
		return
	}

	client, err := storage.NewClient(Ctx)
	if err != nil {
		slog.Error("failed to create storage client", "error", err)
		os.Exit(1)
	}

	Storage = client
	slog.Info("connected to object storage", "bucket", Bucket)
}

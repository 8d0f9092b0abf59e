package firebase

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// Storage wraps the Firebase Cloud Storage bucket used for post images and avatars
type Storage struct {
	bucketName string
	bucket     *gcs.BucketHandle
}

// InitStorage initializes the Firebase application and its storage bucket
func InitStorage(ctx context.Context, credentialsPath, bucketName string) (*Storage, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("Firebase credentials path not provided")
	}
	if bucketName == "" {
		return nil, fmt.Errorf("storage bucket name not provided")
	}

	// Check if the credentials file exists
	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("Firebase credentials file not found at %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)

	firebaseApp, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: bucketName}, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	storageClient, err := firebaseApp.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase storage client: %w", err)
	}

	bucket, err := storageClient.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("error getting default storage bucket: %w", err)
	}

	log.Println("Firebase app and storage bucket initialized successfully!")
	return &Storage{bucketName: bucketName, bucket: bucket}, nil
}

// Upload writes an object to the bucket and returns its public URL
func (s *Storage) Upload(ctx context.Context, name string, r io.Reader, contentType string) (string, error) {
	w := s.bucket.Object(name).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to write object %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize object %s: %w", name, err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, name), nil
}

// Delete removes an object from the bucket. Deleting a missing object is not an error.
func (s *Storage) Delete(ctx context.Context, name string) error {
	if err := s.bucket.Object(name).Delete(ctx); err != nil {
		if err == gcs.ErrObjectNotExist {
			return nil
		}
		return fmt.Errorf("failed to delete object %s: %w", name, err)
	}
	return nil
}

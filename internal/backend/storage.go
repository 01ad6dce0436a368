package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// UploadImage stores content under objectKey in the image bucket. Keys are
// "{user_id}/{unix_ms}.{ext}" so per-user cleanup can be done by prefix.
func (client *Client) UploadImage(ctx context.Context, objectKey string, content []byte, contentType string) error {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", client.baseURL, client.bucket, objectKey)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	client.setAuthHeaders(request)

	response, err := client.http.Do(request)
	if err != nil {
		return fmt.Errorf("upload image: %w", err)
	}
	defer response.Body.Close()
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return decodeAPIError(response)
	}
	return nil
}

// PublicImageURL resolves an object key to its publicly fetchable URL.
func (client *Client) PublicImageURL(objectKey string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", client.baseURL, client.bucket, objectKey)
}

// RemoveImage deletes one stored object. Callers treat failures as
// best-effort cleanup and discard the error at the call site.
func (client *Client) RemoveImage(ctx context.Context, objectKey string) error {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", client.baseURL, client.bucket, objectKey)
	request, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build remove request: %w", err)
	}
	client.setAuthHeaders(request)

	response, err := client.http.Do(request)
	if err != nil {
		return fmt.Errorf("remove image: %w", err)
	}
	defer response.Body.Close()
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return decodeAPIError(response)
	}
	return nil
}

// DownloadImage fetches a stored image by its public URL, returning the bytes
// and the reported content type. Used by the PDF exporter to inline photos.
func (client *Client) DownloadImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build download request: %w", err)
	}

	response, err := client.http.Do(request)
	if err != nil {
		return nil, "", fmt.Errorf("download image: %w", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, "", decodeAPIError(response)
	}

	content, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read image body: %w", err)
	}
	return content, response.Header.Get("Content-Type"), nil
}

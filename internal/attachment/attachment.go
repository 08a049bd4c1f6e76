package attachment

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/h2non/filetype"

	"github.com/jimmartinquisitive/talkflow-n8n/internal/chat"
)

// Process reads an image file and converts it into the base64 payload
// embedded in a user message and the outgoing request. Any failure wraps
// chat.ErrImageProcessing and happens before any network call or state
// mutation. No size limit is enforced here.
func Process(path string) (*chat.ImageData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", chat.ErrImageProcessing, path, err)
	}
	return ProcessBytes(filepath.Base(path), data)
}

// ProcessBytes converts raw image bytes into a chat.ImageData payload.
func ProcessBytes(fileName string, data []byte) (*chat.ImageData, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", chat.ErrImageProcessing, fileName)
	}

	kind, err := filetype.Match(data)
	if err != nil {
		return nil, fmt.Errorf("%w: detect type of %s: %v", chat.ErrImageProcessing, fileName, err)
	}
	if !filetype.IsImage(data) {
		return nil, fmt.Errorf("%w: %s is not an image", chat.ErrImageProcessing, fileName)
	}

	return &chat.ImageData{
		Data:     base64.StdEncoding.EncodeToString(data),
		MimeType: kind.MIME.Value,
		FileName: fileName,
	}, nil
}

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/hibiken/asynq"

	"sareeapi/models"
)

const JWTSecret = "test-secret"

func JsonString(model interface{}) string {
	bytes, _ := json.Marshal(model)
	return string(bytes)
}

func NewJSONRequest(method string, target string, param interface{}) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(JsonString(param)))
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	return req
}

// GenerateSessionToken signs a token the way the login endpoint does.
func GenerateSessionToken(username, sessionID string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"sid": sessionID,
		"exp": time.Now().Add(time.Hour).Unix(),
		"iat": time.Now().Unix(),
	})
	t, err := token.SignedString([]byte(JWTSecret))
	if err != nil {
		panic(fmt.Sprintf("signing token for %s: %s", username, err))
	}
	return t
}

func NewJSONAuthRequest(method string, target string, username, sessionID string, param interface{}) *http.Request {
	req := NewJSONRequest(method, target, param)
	req.Header.Add("Authorization", "Bearer "+GenerateSessionToken(username, sessionID))
	return req
}

func NewAuthRequest(method string, target string, username, sessionID string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Add("Authorization", "Bearer "+GenerateSessionToken(username, sessionID))
	return req
}

// NewMultipartAuthRequest builds an upload form. files maps a field name to one or more images.
func NewMultipartAuthRequest(target, username, sessionID string, fields map[string]string, files map[string][]models.Image) *http.Request {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, value := range fields {
		_ = mw.WriteField(name, value)
	}
	for name, images := range files {
		for i, img := range images {
			part, _ := mw.CreateFormFile(name, fmt.Sprintf("%s-%d.png", name, i))
			_, _ = part.Write(img.Data)
		}
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Add("Authorization", "Bearer "+GenerateSessionToken(username, sessionID))
	return req
}

func NewRefString(data string) *string {
	return &data
}

type Upload struct {
	Bucket      string
	Key         string
	Size        int
	ContentType string
}

type AWSProviderMock struct {
	MockUrl string
	Err     error

	mu      sync.Mutex
	uploads []Upload
}

func (awsService *AWSProviderMock) UploadObject(ctx context.Context, bucketName, key string, body []byte, contentType string) error {
	if awsService.Err != nil {
		return awsService.Err
	}
	awsService.mu.Lock()
	defer awsService.mu.Unlock()
	awsService.uploads = append(awsService.uploads, Upload{Bucket: bucketName, Key: key, Size: len(body), ContentType: contentType})
	return nil
}

func (awsService *AWSProviderMock) GetPresignedR2FileReadURL(ctx context.Context, bucketName, fileKey string) (string, error) {
	if awsService.MockUrl != "" {
		return awsService.MockUrl, nil
	}
	return fmt.Sprintf("https://fakebucketurl.com/%s", fileKey), nil
}

func (awsService *AWSProviderMock) Uploads() []Upload {
	awsService.mu.Lock()
	defer awsService.mu.Unlock()
	return append([]Upload(nil), awsService.uploads...)
}

type NotifierMock struct {
	mu      sync.Mutex
	records []models.ExportRecord
	digests []models.ExportDigest
}

func (n *NotifierMock) NotifyExport(ctx context.Context, record models.ExportRecord) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.records = append(n.records, record)
	return nil
}

func (n *NotifierMock) NotifyDigest(ctx context.Context, digest models.ExportDigest) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.digests = append(n.digests, digest)
	return nil
}

func (n *NotifierMock) Digests() []models.ExportDigest {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.ExportDigest(nil), n.digests...)
}

func (n *NotifierMock) Records() []models.ExportRecord {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.ExportRecord(nil), n.records...)
}

// EnqueuerMock stands in for the asynq client.
type EnqueuerMock struct {
	mu    sync.Mutex
	tasks []*asynq.Task
}

func (q *EnqueuerMock) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
	return &asynq.TaskInfo{ID: fmt.Sprintf("task-%d", len(q.tasks)), Type: task.Type()}, nil
}

func (q *EnqueuerMock) Tasks() []*asynq.Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]*asynq.Task(nil), q.tasks...)
}

package cloudwatch

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"

	applicationPort "github.com/dreschagin/smartfood/internal/application/port"
)

type fakeLogsAPI struct {
	mu          sync.Mutex
	puts        []*cloudwatchlogs.PutLogEventsInput
	putErrs     []error
	groupErr    error
	createdGrp  int
	createdStrm int
}

func (f *fakeLogsAPI) PutLogEvents(_ context.Context, in *cloudwatchlogs.PutLogEventsInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.putErrs) > 0 {
		err := f.putErrs[0]
		f.putErrs = f.putErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	f.puts = append(f.puts, in)
	return &cloudwatchlogs.PutLogEventsOutput{NextSequenceToken: aws.String("next")}, nil
}

func (f *fakeLogsAPI) CreateLogGroup(_ context.Context, _ *cloudwatchlogs.CreateLogGroupInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error) {
	f.createdGrp++
	if f.groupErr != nil {
		return nil, f.groupErr
	}
	return &cloudwatchlogs.CreateLogGroupOutput{}, nil
}

func (f *fakeLogsAPI) CreateLogStream(_ context.Context, _ *cloudwatchlogs.CreateLogStreamInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogStreamOutput, error) {
	f.createdStrm++
	return &cloudwatchlogs.CreateLogStreamOutput{}, nil
}

func testConfig() LogsPublisherConfig {
	return LogsPublisherConfig{
		LogGroupName:  "/smartfood/test",
		LogStreamName: "test-stream",
		Region:        "us-east-1",
		BufferSize:    3,
		FlushInterval: time.Hour,
	}
}

func TestConvertToLogEvent(t *testing.T) {
	timestamp := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	entry := applicationPort.LogEntry{
		Timestamp: timestamp,
		Level:     applicationPort.LogLevelInfo,
		Message:   "HTTP Request",
		Fields: map[string]interface{}{
			"path":   "/category/mains/",
			"status": 200,
		},
	}

	event, err := convertToLogEvent(entry)
	if err != nil {
		t.Fatalf("convertToLogEvent() error = %v", err)
	}
	if event.Timestamp == nil || *event.Timestamp != timestamp.UnixMilli() {
		t.Fatalf("unexpected timestamp %v", event.Timestamp)
	}

	var logData map[string]interface{}
	if err := json.Unmarshal([]byte(*event.Message), &logData); err != nil {
		t.Fatalf("message is not JSON: %v", err)
	}
	if logData["level"] != "INFO" || logData["message"] != "HTTP Request" {
		t.Fatalf("unexpected log data: %v", logData)
	}
	fields := logData["fields"].(map[string]interface{})
	if fields["path"] != "/category/mains/" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestConvertToLogEvent_Truncation(t *testing.T) {
	entry := applicationPort.LogEntry{
		Timestamp: time.Now(),
		Level:     applicationPort.LogLevelInfo,
		Message:   string(make([]byte, maxLogEventSize+1000)),
	}

	event, err := convertToLogEvent(entry)
	if err != nil {
		t.Fatalf("convertToLogEvent() error = %v", err)
	}
	msg := *event.Message
	if len(msg) > maxLogEventSize {
		t.Fatalf("expected truncation to %d bytes, got %d", maxLogEventSize, len(msg))
	}
	if msg[len(msg)-3:] != "..." {
		t.Fatal("expected truncation marker")
	}
}

func TestLogsPublisherFlushesWhenBufferFull(t *testing.T) {
	api := &fakeLogsAPI{}
	p, err := newLogsPublisher(context.Background(), api, testConfig())
	if err != nil {
		t.Fatalf("newLogsPublisher() error = %v", err)
	}
	defer p.Close(context.Background())

	now := time.Now()
	entries := []applicationPort.LogEntry{
		{Timestamp: now.Add(2 * time.Second), Level: applicationPort.LogLevelInfo, Message: "third"},
		{Timestamp: now, Level: applicationPort.LogLevelInfo, Message: "first"},
		{Timestamp: now.Add(time.Second), Level: applicationPort.LogLevelInfo, Message: "second"},
	}
	if err := p.PublishBatch(context.Background(), entries); err != nil {
		t.Fatalf("PublishBatch() error = %v", err)
	}

	if len(api.puts) != 1 {
		t.Fatalf("expected one PutLogEvents call, got %d", len(api.puts))
	}
	events := api.puts[0].LogEvents
	want := []string{"first", "second", "third"}
	for i, event := range events {
		var data map[string]interface{}
		_ = json.Unmarshal([]byte(*event.Message), &data)
		if data["message"] != want[i] {
			t.Fatalf("event %d: expected %q, got %v", i, want[i], data["message"])
		}
	}
}

func TestLogsPublisherRetriesWithExpectedSequenceToken(t *testing.T) {
	api := &fakeLogsAPI{putErrs: []error{
		&types.InvalidSequenceTokenException{ExpectedSequenceToken: aws.String("expected")},
	}}
	p, err := newLogsPublisher(context.Background(), api, testConfig())
	if err != nil {
		t.Fatalf("newLogsPublisher() error = %v", err)
	}
	defer p.Close(context.Background())

	_ = p.Publish(context.Background(), applicationPort.LogEntry{Timestamp: time.Now(), Level: applicationPort.LogLevelWarn, Message: "x"})
	if err := p.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if len(api.puts) != 1 || aws.ToString(api.puts[0].SequenceToken) != "expected" {
		t.Fatalf("expected retry with expected token, got %+v", api.puts)
	}
}

func TestLogsPublisherAutoCreateToleratesExisting(t *testing.T) {
	api := &fakeLogsAPI{groupErr: &types.ResourceAlreadyExistsException{}}
	cfg := testConfig()
	cfg.AutoCreate = true

	p, err := newLogsPublisher(context.Background(), api, cfg)
	if err != nil {
		t.Fatalf("newLogsPublisher() error = %v", err)
	}
	defer p.Close(context.Background())

	if api.createdGrp != 1 || api.createdStrm != 1 {
		t.Fatalf("expected group and stream creation attempts, got %d/%d", api.createdGrp, api.createdStrm)
	}
}

func TestLogsPublisherAutoCreateFailure(t *testing.T) {
	api := &fakeLogsAPI{groupErr: errors.New("access denied")}
	cfg := testConfig()
	cfg.AutoCreate = true

	if _, err := newLogsPublisher(context.Background(), api, cfg); err == nil {
		t.Fatal("expected auto-create failure")
	}
}

func TestLogsConfigValidation(t *testing.T) {
	tests := []struct {
		name      string
		config    LogsPublisherConfig
		expectErr bool
	}{
		{"valid config", testConfig(), false},
		{"missing log group", LogsPublisherConfig{LogStreamName: "s", Region: "us-east-1"}, true},
		{"missing log stream", LogsPublisherConfig{LogGroupName: "g", Region: "us-east-1"}, true},
		{"missing region", LogsPublisherConfig{LogGroupName: "g", LogStreamName: "s"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.config
			err := cfg.validate()
			if (err != nil) != tt.expectErr {
				t.Fatalf("validate() error = %v, expectErr %v", err, tt.expectErr)
			}
			if err == nil && (cfg.BufferSize <= 0 || cfg.FlushInterval <= 0) {
				t.Fatal("expected defaults to be applied")
			}
		})
	}
}

package simulator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chrisdamba/couriermatch/internal/cloudwriter"
	"github.com/chrisdamba/couriermatch/internal/models"
	"github.com/chrisdamba/couriermatch/internal/output"
	"github.com/chrisdamba/couriermatch/internal/simulator/producers"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

// OutputDestination receives serialized session messages by topic. Writes
// may come from several sessions at once.
type OutputDestination interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

// ConsoleOutput prints every message prefixed by its topic.
type ConsoleOutput struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsoleOutput(w io.Writer) *ConsoleOutput {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleOutput{w: w}
}

func (c *ConsoleOutput) WriteMessage(topic string, msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintf(c.w, "[%s] %s\n", topic, msg); err != nil {
		return fmt.Errorf("failed to write to console: %w", err)
	}
	return nil
}

func (c *ConsoleOutput) Close() error { return nil }

// JSONOutput appends newline-delimited JSON to one file per topic.
type JSONOutput struct {
	basePath string
	folder   string
	mu       sync.Mutex
	files    map[string]*os.File
}

func NewJSONOutput(basePath, folder string) *JSONOutput {
	return &JSONOutput{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*os.File),
	}
}

func (j *JSONOutput) WriteMessage(topic string, msg []byte) error {
	if !json.Valid(msg) {
		return fmt.Errorf("message for topic %s is not valid JSON", topic)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	file, ok := j.files[topic]
	if !ok {
		dir := filepath.Join(j.basePath, j.folder)
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create output folder: %w", err)
		}
		var err error
		file, err = os.OpenFile(filepath.Join(dir, topic+".json"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to create file for topic %s: %w", topic, err)
		}
		j.files[topic] = file
	}

	if _, err := file.Write(append(msg, '\n')); err != nil {
		return fmt.Errorf("failed to write message to topic %s: %w", topic, err)
	}
	return nil
}

func (j *JSONOutput) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	var lastErr error
	for topic, file := range j.files {
		if err := file.Close(); err != nil {
			lastErr = err
		}
		delete(j.files, topic)
	}
	return lastErr
}

// assignmentRow is the Parquet schema of the driver_assignments topic.
type assignmentRow struct {
	SessionID              string  `parquet:"name=session_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Region                 string  `parquet:"name=region, type=BYTE_ARRAY, convertedtype=UTF8"`
	DriverName             string  `parquet:"name=driver_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	PhotoURL               string  `parquet:"name=photo_url, type=BYTE_ARRAY, convertedtype=UTF8"`
	Rating                 float64 `parquet:"name=rating, type=DOUBLE"`
	CompletedDeliveries    int32   `parquet:"name=completed_deliveries, type=INT32"`
	Vehicle                string  `parquet:"name=vehicle, type=BYTE_ARRAY, convertedtype=UTF8"`
	DistanceKm             float64 `parquet:"name=distance_km, type=DOUBLE"`
	Location               string  `parquet:"name=location, type=BYTE_ARRAY, convertedtype=UTF8"`
	AverageDeliveryMinutes int32   `parquet:"name=avg_delivery_minutes, type=INT32"`
	DepartureTime          int64   `parquet:"name=departure_time, type=INT64"`
	ArrivalTime            int64   `parquet:"name=arrival_time, type=INT64"`
	AssignedAt             int64   `parquet:"name=assigned_at, type=INT64"`
	Fallback               bool    `parquet:"name=fallback, type=BOOLEAN"`
}

func newAssignmentRow(a models.Assignment) assignmentRow {
	return assignmentRow{
		SessionID:              a.SessionID,
		Region:                 a.RegionHint,
		DriverName:             a.Driver.Name,
		PhotoURL:               a.Driver.PhotoURL,
		Rating:                 a.Driver.Rating,
		CompletedDeliveries:    int32(a.Driver.CompletedDeliveries),
		Vehicle:                a.Driver.VehicleDescription,
		DistanceKm:             a.Driver.DistanceKm,
		Location:               a.Driver.CurrentLocationLabel,
		AverageDeliveryMinutes: int32(a.Driver.AverageDeliveryMinutes),
		DepartureTime:          a.Estimate.DepartureTime.UnixMilli(),
		ArrivalTime:            a.Estimate.ArrivalTime.UnixMilli(),
		AssignedAt:             a.AssignedAt.UnixMilli(),
		Fallback:               a.Fallback,
	}
}

// ParquetOutput archives completed assignments as Parquet, locally or in a
// cloud bucket. Phase events are not archived.
type ParquetOutput struct {
	basePath           string
	folder             string
	mu                 sync.Mutex
	writer             *writer.ParquetWriter
	file               source.ParquetFile
	cloudWriterFactory cloudwriter.CloudWriterFactory
	cloudBucketName    string
	now                func() time.Time
}

func NewParquetOutput(config *models.Config) (*ParquetOutput, error) {
	p := &ParquetOutput{
		basePath: config.OutputPath,
		folder:   config.OutputFolder,
		now:      time.Now,
	}

	if config.OutputDestination == "cloud" {
		var factory cloudwriter.CloudWriterFactory
		var err error

		switch config.CloudStorage.Provider {
		case "s3":
			factory, err = cloudwriter.NewS3WriterFactory(config.CloudStorage.Region)
		default:
			return nil, fmt.Errorf("unsupported cloud storage provider: %s", config.CloudStorage.Provider)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
		}

		p.cloudWriterFactory = factory
		p.cloudBucketName = config.CloudStorage.BucketName
	}
	return p, nil
}

func (p *ParquetOutput) WriteMessage(topic string, msg []byte) error {
	if topic != models.TopicDriverAssignments {
		return nil
	}
	var assignment models.Assignment
	if err := json.Unmarshal(msg, &assignment); err != nil {
		return fmt.Errorf("invalid assignment message: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.writer == nil {
		if err := p.createWriter(); err != nil {
			return err
		}
	}
	if err := p.writer.Write(newAssignmentRow(assignment)); err != nil {
		return fmt.Errorf("failed to write assignment: %w", err)
	}
	return nil
}

// createWriter must be called with p.mu held.
func (p *ParquetOutput) createWriter() error {
	name := fmt.Sprintf("part-%d.parquet", p.now().UnixNano())
	objectPath := filepath.ToSlash(filepath.Join(p.folder, models.TopicDriverAssignments, name))

	var fw source.ParquetFile
	if p.cloudWriterFactory != nil {
		cloudWriter, err := p.cloudWriterFactory.NewWriter(p.cloudBucketName, objectPath)
		if err != nil {
			return fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		fw = NewCloudParquetFile(cloudWriter)
	} else {
		dir := filepath.Join(p.basePath, p.folder, models.TopicDriverAssignments)
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
		var err error
		fw, err = local.NewLocalFileWriter(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("failed to create local file writer: %w", err)
		}
	}

	pw, err := writer.NewParquetWriter(fw, new(assignmentRow), 1)
	if err != nil {
		fw.Close()
		return fmt.Errorf("failed to create ParquetWriter: %w", err)
	}
	p.writer = pw
	p.file = fw
	return nil
}

func (p *ParquetOutput) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writer == nil {
		return nil
	}
	stopErr := p.writer.WriteStop()
	closeErr := p.file.Close()
	p.writer, p.file = nil, nil
	if stopErr != nil {
		return fmt.Errorf("failed to finish parquet file: %w", stopErr)
	}
	return closeErr
}

// CloudParquetFile adapts a CloudWriter to the write-only subset of
// source.ParquetFile the Parquet writer needs.
type CloudParquetFile struct {
	cloudWriter cloudwriter.CloudWriter
	offset      int64
}

func NewCloudParquetFile(cloudWriter cloudwriter.CloudWriter) *CloudParquetFile {
	return &CloudParquetFile{cloudWriter: cloudWriter}
}

func (c *CloudParquetFile) Open(name string) (source.ParquetFile, error)   { return c, nil }
func (c *CloudParquetFile) Create(name string) (source.ParquetFile, error) { return c, nil }

func (c *CloudParquetFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.offset = offset
	case io.SeekCurrent:
		c.offset += offset
	default:
		return 0, fmt.Errorf("seek from end not supported for cloud storage")
	}
	return c.offset, nil
}

func (c *CloudParquetFile) Read(p []byte) (int, error) {
	return 0, fmt.Errorf("read not supported for cloud storage")
}

func (c *CloudParquetFile) Write(p []byte) (int, error) {
	n, err := c.cloudWriter.Write(p)
	c.offset += int64(n)
	return n, err
}

func (c *CloudParquetFile) Close() error {
	return c.cloudWriter.Close()
}

// MultiOutput fans every message out to several destinations.
type MultiOutput []OutputDestination

func (m MultiOutput) WriteMessage(topic string, msg []byte) error {
	var lastErr error
	for _, out := range m {
		if err := out.WriteMessage(topic, msg); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (m MultiOutput) Close() error {
	var lastErr error
	for _, out := range m {
		if err := out.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// DetermineOutputDestination builds the outputs selected by config. Kafka and
// RabbitMQ are added alongside a file output when both are configured; with
// nothing configured it returns nil and sessions are not published.
func DetermineOutputDestination(config *models.Config) (_ OutputDestination, err error) {
	var outputs MultiOutput
	defer func() {
		if err != nil {
			outputs.Close()
		}
	}()

	if config.OutputConsole {
		outputs = append(outputs, NewConsoleOutput(os.Stdout))
	}
	if config.KafkaEnabled {
		producer, err := producers.NewSaramaProducer(config)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, producer)
	}
	if config.RabbitMQURL != "" {
		producer, err := producers.NewRabbitMQProducer(config.RabbitMQURL, config.RabbitMQExchange)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, producer)
	}
	if config.OutputPostgresURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		sink, err := output.NewPostgresOutput(ctx, config.OutputPostgresURL)
		cancel()
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, sink)
	}
	if config.OutputPath != "" || config.OutputDestination == "cloud" {
		switch config.OutputFormat {
		case "parquet":
			archive, err := NewParquetOutput(config)
			if err != nil {
				return nil, err
			}
			outputs = append(outputs, archive)
		case "json":
			if config.OutputDestination == "cloud" {
				return nil, errors.New("json output cannot be written to cloud storage; use parquet")
			}
			outputs = append(outputs, NewJSONOutput(config.OutputPath, config.OutputFolder))
		default:
			return nil, fmt.Errorf("unsupported output format: %s", config.OutputFormat)
		}
	}

	switch len(outputs) {
	case 0:
		return nil, nil
	case 1:
		return outputs[0], nil
	default:
		return outputs, nil
	}
}

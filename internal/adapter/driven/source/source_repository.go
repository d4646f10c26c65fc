package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/diillson/cluster-utilization-go/internal/domain/entity"
	"github.com/diillson/cluster-utilization-go/internal/domain/repository"
)

const (
	// EnvVar aponta para a série de atividade do supercomputador.
	EnvVar = "ATIVIDADE_SUPERCOMP"
	// DefaultPath é usado quando a variável não está definida ou a origem falha.
	DefaultPath = "dados/atividade_supercomp.json"

	httpTimeout = 30 * time.Second
)

// objectGetter é o subconjunto do cliente S3 usado pelo repositório.
type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// SourceRepositoryImpl implementa o SourceRepository.
type SourceRepositoryImpl struct {
	defaultPath string
	httpClient  *http.Client

	mu       sync.Mutex
	s3Client objectGetter
}

// NewSourceRepository cria uma nova implementação do SourceRepository.
func NewSourceRepository(defaultPath string) repository.SourceRepository {
	if defaultPath == "" {
		defaultPath = DefaultPath
	}
	return &SourceRepositoryImpl{
		defaultPath: defaultPath,
		httpClient:  &http.Client{Timeout: httpTimeout},
	}
}

// LoadSeries carrega a série da origem informada (arquivo, http(s):// ou s3://).
// Se a origem estiver vazia ou falhar, tenta o arquivo padrão.
func (r *SourceRepositoryImpl) LoadSeries(ctx context.Context, source string) ([]entity.MonthlyReport, string, error) {
	var primaryErr error
	if source != "" {
		series, err := r.load(ctx, source)
		if err == nil {
			return series, source, nil
		}
		primaryErr = fmt.Errorf("error loading %s: %w", source, err)
	}

	series, err := r.load(ctx, r.defaultPath)
	if err != nil {
		return nil, "", errors.Join(primaryErr, fmt.Errorf("error loading default %s: %w", r.defaultPath, err))
	}
	return series, r.defaultPath, nil
}

func (r *SourceRepositoryImpl) load(ctx context.Context, source string) ([]entity.MonthlyReport, error) {
	var (
		data []byte
		err  error
	)

	parsed, parseErr := url.Parse(source)
	switch {
	case parseErr == nil && (parsed.Scheme == "http" || parsed.Scheme == "https"):
		data, err = r.fetchURL(ctx, source)
	case parseErr == nil && parsed.Scheme == "s3":
		data, err = r.fetchS3(ctx, parsed)
	default:
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, err
	}

	var series []entity.MonthlyReport
	if err := json.Unmarshal(data, &series); err != nil {
		return nil, fmt.Errorf("invalid JSON content: %w", err)
	}
	return series, nil
}

func (r *SourceRepositoryImpl) fetchURL(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected HTTP status: %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}

func (r *SourceRepositoryImpl) fetchS3(ctx context.Context, location *url.URL) ([]byte, error) {
	bucket := location.Host
	key := strings.TrimPrefix(location.Path, "/")
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("invalid S3 location %q, expected s3://bucket/key", location.String())
	}

	client, err := r.getS3Client(ctx)
	if err != nil {
		return nil, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

func (r *SourceRepositoryImpl) getS3Client(ctx context.Context) (objectGetter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.s3Client != nil {
		return r.s3Client, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	r.s3Client = s3.NewFromConfig(cfg)
	return r.s3Client, nil
}

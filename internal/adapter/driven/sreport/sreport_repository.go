package sreport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/diillson/cluster-utilization-go/internal/domain/entity"
	"github.com/diillson/cluster-utilization-go/internal/domain/repository"
	"github.com/diillson/cluster-utilization-go/internal/shared/types"
)

const (
	DefaultCommand  = "sreport"
	DefaultResource = "cpu"
	DefaultTimeout  = 5 * time.Minute
)

// SreportRepositoryImpl implementa o ReportRepository executando o sreport do Slurm.
type SreportRepositoryImpl struct {
	command  string
	resource string
	timeout  time.Duration
}

// NewSreportRepository cria uma nova implementação do ReportRepository.
// Valores vazios ou zerados usam os padrões do pacote.
func NewSreportRepository(command, resource string, timeout time.Duration) repository.ReportRepository {
	if command == "" {
		command = DefaultCommand
	}
	if resource == "" {
		resource = DefaultResource
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &SreportRepositoryImpl{
		command:  command,
		resource: resource,
		timeout:  timeout,
	}
}

// Args monta os argumentos do sreport para uma janela:
// relatório de utilização do cluster, em percentual, sem cabeçalho e separado por "|".
func Args(window entity.MonthWindow, resource string) []string {
	return []string{
		"cluster", "utilization",
		"start=" + window.SreportStart(),
		"end=" + window.SreportEnd(),
		"-t", "percent",
		"-T", resource,
		"-nP",
	}
}

// FetchReport executa o comando uma única vez para a janela, sem novas tentativas.
func (r *SreportRepositoryImpl) FetchReport(ctx context.Context, window entity.MonthWindow) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.command, Args(window, r.resource)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = fmt.Errorf("timed out after %v: %w", r.timeout, ctx.Err())
		}
		return "", &types.CommandError{
			Window:   fmt.Sprintf("%s - %s", window.SreportStart(), window.SreportEnd()),
			ExitCode: exitCode(err),
			Stderr:   stderr.String(),
			Err:      err,
		}
	}

	return stdout.String(), nil
}

// exitCode extrai o código de saída do erro; -1 quando o processo nem chegou a terminar.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

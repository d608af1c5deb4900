package services

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/Prabalranjan/Power-BI-Data-Download/internal/exporter"
	"github.com/Prabalranjan/Power-BI-Data-Download/internal/query"
	"github.com/Prabalranjan/Power-BI-Data-Download/pkg/contracts/domain"
)

type MockExportRepository struct {
	mock.Mock
}

func (m *MockExportRepository) FetchExport(ctx context.Context, q query.Query) ([]domain.ExportRow, error) {
	args := m.Called(ctx, q)
	rows, _ := args.Get(0).([]domain.ExportRow)
	return rows, args.Error(1)
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Write(w io.Writer, rows []domain.ExportRow, f exporter.Format) error {
	args := m.Called(w, rows, f)
	return args.Error(0)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) PingContext(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"navy-training/backend/internal/dto"
	"navy-training/backend/internal/model"
	"navy-training/backend/internal/repository"
	"navy-training/backend/pkg/clock"
	pkgerrors "navy-training/backend/pkg/errors"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoSchedules  = errors.New("所选时间段内没有讲师日程")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 以 bytes.Buffer 返回，由 Handler 设置响应头后写出
// 未给出时间窗时导出当月
type ExportService interface {
	ExportSchedules(ctx context.Context, q *dto.DateWindowQuery) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	clock  clock.Clock
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, clk clock.Clock, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, clock: clk, logger: logger}
}

var exportHeaders = []string{"开始日期", "结束日期", "讲师", "职级", "内容", "来源", "申请编号"}

var sourceLabels = map[model.ScheduleSource]string{
	model.SourceManual:  "手动录入",
	model.SourceRequest: "训练申请",
}

// ═══════════════════════════════════════════════════════════
// ExportSchedules 导出时间窗内的讲师日程
// ═══════════════════════════════════════════════════════════
//
// 输出格式：单个 Sheet，第 1 行标题（合并），第 2 行表头，之后每条日程一行
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportSchedules(ctx context.Context, q *dto.DateWindowQuery) (*bytes.Buffer, string, error) {
	start, end, ok, err := parseWindow(q)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		start, end = monthOf(s.clock.Now())
	}

	schedules, err := s.repo.InstructorSchedule.ListByDateRange(ctx, start, end, nil)
	if err != nil {
		s.logger.Error("查询讲师日程失败", zap.Error(err))
		return nil, "", err
	}
	if len(schedules) == 0 {
		return nil, "", pkgerrors.NotFound(ErrExportNoSchedules, "instructor_schedule", nil)
	}

	vb, err := loadScheduleViews(ctx, s.repo, schedules)
	if err != nil {
		s.logger.Error("加载讲师信息失败", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "讲师日程"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "B", 14)
	f.SetColWidth(sheetName, "C", "D", 12)
	f.SetColWidth(sheetName, "E", "E", 36)
	f.SetColWidth(sheetName, "F", "G", 12)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	title := fmt.Sprintf("讲师日程 %s ~ %s", start.Format(model.DateLayout), end.Format(model.DateLayout))
	f.SetCellValue(sheetName, "A1", title)
	lastCol := colName(len(exportHeaders) - 1)
	f.MergeCell(sheetName, "A1", cell(lastCol, 1))
	f.SetCellStyle(sheetName, "A1", cell(lastCol, 1), headerStyle)

	// 表头
	for i, h := range exportHeaders {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetName, "A2", cell(lastCol, 2), headerStyle)

	// 数据行
	row := 3
	for i := range schedules {
		sc := vb.schedule(&schedules[i])
		values := []interface{}{sc.ScheduleDate, "-", sc.InstructorID, "-", sc.Description, sourceLabels[model.ScheduleSource(sc.Source)], "-"}
		if sc.EndDate != nil {
			values[1] = *sc.EndDate
		}
		if sc.Instructor != nil {
			values[2] = sc.Instructor.Name
			values[3] = sc.Instructor.Rank
		}
		if sc.RequestID != nil {
			values[6] = *sc.RequestID
		}
		for col, v := range values {
			f.SetCellValue(sheetName, cell(colName(col), row), v)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("讲师日程_%s_%s.xlsx", start.Format("20060102"), end.Format("20060102"))
	return buf, filename, nil
}

// ── 辅助函数 ──

// monthOf t 所在自然月的首日与末日
func monthOf(t time.Time) (time.Time, time.Time) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

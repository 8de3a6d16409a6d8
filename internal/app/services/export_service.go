package services

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"github.com/yigit/timetable/internal/app/models"
)

const masterSheet = "Master Schedule"

// ExportService renders the master schedule as a spreadsheet
type ExportService struct {
	schedules *ScheduleService
	logger    zerolog.Logger
}

// NewExportService creates a new export service
func NewExportService(schedules *ScheduleService, logger zerolog.Logger) *ExportService {
	return &ExportService{schedules: schedules, logger: logger}
}

// WriteMasterSchedule writes the active term's master schedule workbook to w.
// Each teacher gets one row per day, Monday first, with one column per
// period.
func (s *ExportService) WriteMasterSchedule(ctx context.Context, w io.Writer) (*models.MasterSchedule, error) {
	master, err := s.schedules.MasterSchedule(ctx)
	if err != nil {
		return nil, err
	}

	f, err := MasterWorkbook(master)
	if err != nil {
		return nil, fail(s.logger, err, "Failed to build master schedule workbook")
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return nil, fail(s.logger, err, "Failed to write master schedule workbook")
	}
	return master, nil
}

// MasterWorkbook lays the master schedule out on a single sheet
func MasterWorkbook(master *models.MasterSchedule) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(masterSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headers := []interface{}{"Teacher", "Day"}
	for p := 1; p <= models.PeriodsPerDay; p++ {
		headers = append(headers, fmt.Sprintf("P%d", p))
	}
	if err := f.SetSheetRow(masterSheet, "A1", &headers); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(masterSheet, "A1", last, bold); err != nil {
		return nil, err
	}

	row := 2
	for _, teacher := range master.Teachers {
		first := row
		for ui, cells := range teacher.Grid().Rows() {
			values := []interface{}{"", models.DayName(models.UIDayToStored(ui))}
			if ui == 0 {
				values[0] = teacher.TeacherName
			}
			for _, e := range cells {
				if e == nil {
					values = append(values, "")
					continue
				}
				values = append(values, e.CourseName)
			}
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetSheetRow(masterSheet, cell, &values); err != nil {
				return nil, err
			}
			row++
		}
		top, _ := excelize.CoordinatesToCellName(1, first)
		bottom, _ := excelize.CoordinatesToCellName(1, row-1)
		if err := f.MergeCell(masterSheet, top, bottom); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(masterSheet, "A", "A", 24); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(masterSheet, "C", last[:1], 18); err != nil {
		return nil, err
	}
	return f, nil
}

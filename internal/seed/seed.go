// Package seed creates a small demo school so a fresh deployment has a
// timetable to look at.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/app/services"
	"github.com/yigit/timetable/internal/pkg/auth"
)

// Services are the services the seed writes through
type Services struct {
	Users      *services.UserService
	Terms      *services.TermService
	Classes    *services.ClassService
	Courses    *services.CourseService
	Enrollment *services.EnrollmentService
	Schedules  *services.ScheduleService
}

var demoTeachers = []models.User{
	{Email: "grace.hopper@school.test", FirstName: "Grace", LastName: "Hopper"},
	{Email: "alan.turing@school.test", FirstName: "Alan", LastName: "Turing"},
	{Email: "marie.curie@school.test", FirstName: "Marie", LastName: "Curie"},
}

var demoStudents = []models.User{
	{Email: "ada.byron@school.test", FirstName: "Ada", LastName: "Byron"},
	{Email: "emmy.noether@school.test", FirstName: "Emmy", LastName: "Noether"},
	{Email: "carl.gauss@school.test", FirstName: "Carl", LastName: "Gauss"},
	{Email: "sofia.kovalevskaya@school.test", FirstName: "Sofia", LastName: "Kovalevskaya"},
	{Email: "niels.bohr@school.test", FirstName: "Niels", LastName: "Bohr"},
}

// CreateDefaultData seeds the demo school unless an admin already exists.
// When jwt is set a token for the demo admin is logged.
func CreateDefaultData(ctx context.Context, svc Services, jwt *auth.JWTService, lgr zerolog.Logger) error {
	admins, err := svc.Users.ListUsers(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}
	if len(admins) > 0 {
		lgr.Info().Msg("Default data already present, skipping seed")
		return nil
	}

	lgr.Info().Msg("Creating default data...")

	admin, err := svc.Users.CreateUser(ctx, &models.User{
		Email: "admin@school.test", FirstName: "School", LastName: "Admin", RoleType: models.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("error creating admin: %w", err)
	}

	var teachers, students []int64
	for _, u := range demoTeachers {
		u.RoleType = models.RoleTeacher
		created, err := svc.Users.CreateUser(ctx, &u)
		if err != nil {
			return fmt.Errorf("error creating teacher %s: %w", u.Email, err)
		}
		teachers = append(teachers, created.ID)
	}
	for _, u := range demoStudents {
		u.RoleType = models.RoleStudent
		created, err := svc.Users.CreateUser(ctx, &u)
		if err != nil {
			return fmt.Errorf("error creating student %s: %w", u.Email, err)
		}
		students = append(students, created.ID)
	}

	if err := createTerm(ctx, svc.Terms); err != nil {
		return err
	}

	class, err := svc.Classes.CreateClass(ctx, &models.Class{Name: "9A", GradeLevel: 9})
	if err != nil {
		return fmt.Errorf("error creating class: %w", err)
	}
	for _, id := range students[:4] {
		if _, err := svc.Classes.AddStudent(ctx, class.ID, id); err != nil {
			return fmt.Errorf("error adding student %d to class: %w", id, err)
		}
	}

	var finalErr error
	var algebraID int64
	courses := []struct {
		name, subject string
		teacher       int64
		slots         []models.SlotCoordinate
	}{
		{"Algebra 9A", "Mathematics", teachers[0], []models.SlotCoordinate{{DayOfWeek: models.Monday, Period: 0}, {DayOfWeek: models.Wednesday, Period: 1}}},
		{"Computing 9A", "Computer Science", teachers[1], []models.SlotCoordinate{{DayOfWeek: models.Monday, Period: 1}, {DayOfWeek: models.Thursday, Period: 2}}},
		{"Chemistry 9A", "Chemistry", teachers[2], []models.SlotCoordinate{{DayOfWeek: models.Tuesday, Period: 0}, {DayOfWeek: models.Friday, Period: 3}}},
	}
	for _, c := range courses {
		course, err := svc.Courses.CreateCourse(ctx, &models.Course{
			Name: c.name, Subject: c.subject, TeacherID: c.teacher, ClassID: &class.ID,
		})
		if err != nil {
			return fmt.Errorf("error creating course %s: %w", c.name, err)
		}
		if algebraID == 0 {
			algebraID = course.ID
		}
		if _, err := svc.Enrollment.EnrollClass(ctx, course.ID); err != nil {
			lgr.Error().Err(err).Str("course", c.name).Msg("Error enrolling class")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		assignments := make([]models.SlotAssignment, 0, len(c.slots))
		for _, at := range c.slots {
			assignments = append(assignments, models.SlotAssignment{DayOfWeek: at.DayOfWeek, Period: at.Period, CourseID: course.ID})
		}
		if _, err := svc.Schedules.SaveTeacherSchedule(ctx, c.teacher, assignments); err != nil {
			lgr.Error().Err(err).Str("course", c.name).Msg("Error scheduling course")
			finalErr = errors.Join(finalErr, err)
		}
	}

	// One student outside the class takes algebra, so class enrollment and
	// single enrollment both show up in the demo
	if _, err := svc.Enrollment.EnrollStudent(ctx, algebraID, students[4]); err != nil {
		lgr.Warn().Err(err).Msg("Error enrolling extra student")
	}

	if jwt != nil {
		token, err := jwt.GenerateToken(admin)
		if err != nil {
			finalErr = errors.Join(finalErr, err)
		} else {
			lgr.Debug().Str("email", admin.Email).Str("token", token).Msg("Demo admin token")
		}
	}

	lgr.Info().Int("teachers", len(teachers)).Int("students", len(students)).Msg("Default data created")
	return finalErr
}

func createTerm(ctx context.Context, terms *services.TermService) error {
	year := time.Now().Year()
	start := time.Date(year, time.September, 1, 0, 0, 0, 0, time.UTC)

	academicYear, err := terms.CreateAcademicYear(ctx, &models.AcademicYear{
		Name:      fmt.Sprintf("%d/%d", year, year+1),
		StartDate: start,
		EndDate:   time.Date(year+1, time.June, 30, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		return fmt.Errorf("error creating academic year: %w", err)
	}
	if _, err := terms.ActivateAcademicYear(ctx, academicYear.ID); err != nil {
		return fmt.Errorf("error activating academic year: %w", err)
	}

	term, err := terms.CreateTerm(ctx, &models.Term{
		Name:           fmt.Sprintf("%d Fall", year),
		AcademicYearID: &academicYear.ID,
		Parity:         models.TermOdd,
		StartDate:      start,
		EndDate:        time.Date(year+1, time.January, 20, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		return fmt.Errorf("error creating term: %w", err)
	}
	if _, err := terms.ActivateTerm(ctx, term.ID); err != nil {
		return fmt.Errorf("error activating term: %w", err)
	}
	return nil
}

package seed

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/app/repositories/memory"
	"github.com/yigit/timetable/internal/app/services"
	"github.com/yigit/timetable/internal/pkg/auth"
	"github.com/yigit/timetable/internal/pkg/cache"
)

func newServices() Services {
	store := memory.NewStore()
	lgr := zerolog.Nop()
	notifier := services.NewScheduleNotifier(cache.Noop{}, nil, lgr)
	return Services{
		Users:      services.NewUserService(store, lgr),
		Terms:      services.NewTermService(store, notifier, lgr),
		Classes:    services.NewClassService(store, lgr),
		Courses:    services.NewCourseService(store, notifier, lgr),
		Enrollment: services.NewEnrollmentService(store, notifier, lgr),
		Schedules:  services.NewScheduleService(store, cache.Noop{}, notifier, lgr),
	}
}

func TestCreateDefaultData(t *testing.T) {
	ctx := context.Background()
	svc := newServices()
	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "seed-secret", AccessTokenExp: time.Hour, TokenIssuer: "timetable"})

	require.NoError(t, CreateDefaultData(ctx, svc, jwt, zerolog.Nop()))

	term, err := svc.Terms.ActiveTerm(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.TermOdd, term.Parity)

	master, err := svc.Schedules.MasterSchedule(ctx)
	require.NoError(t, err)
	require.Len(t, master.Teachers, len(demoTeachers))
	for _, week := range master.Teachers {
		assert.Len(t, week.Entries, 2, week.TeacherName)
	}

	students, err := svc.Users.ListUsers(ctx, models.RoleStudent)
	require.NoError(t, err)
	require.Len(t, students, len(demoStudents))
	for _, s := range students {
		week, err := svc.Schedules.StudentSchedule(ctx, s.ID)
		require.NoError(t, err)
		switch s.Email {
		case "niels.bohr@school.test":
			assert.Len(t, week, 2)
		default:
			assert.Len(t, week, 6, s.Email)
		}
	}
}

func TestCreateDefaultDataRunsOnce(t *testing.T) {
	ctx := context.Background()
	svc := newServices()

	require.NoError(t, CreateDefaultData(ctx, svc, nil, zerolog.Nop()))
	require.NoError(t, CreateDefaultData(ctx, svc, nil, zerolog.Nop()))

	teachers, err := svc.Users.ListUsers(ctx, models.RoleTeacher)
	require.NoError(t, err)
	assert.Len(t, teachers, len(demoTeachers))
}

func TestAdminTokenOnlyLoggedAtDebug(t *testing.T) {
	ctx := context.Background()
	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "seed-secret", AccessTokenExp: time.Hour, TokenIssuer: "timetable"})

	var out bytes.Buffer
	require.NoError(t, CreateDefaultData(ctx, newServices(), jwt, zerolog.New(&out).Level(zerolog.InfoLevel)))
	assert.NotContains(t, out.String(), "Demo admin token")
	assert.Contains(t, out.String(), "Default data created")

	out.Reset()
	require.NoError(t, CreateDefaultData(ctx, newServices(), jwt, zerolog.New(&out).Level(zerolog.DebugLevel)))
	assert.Contains(t, out.String(), "Demo admin token")
}

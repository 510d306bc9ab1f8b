package form_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"todoTracker/internal/form"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTodo() form.TodoFields {
	end := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	return form.TodoFields{Title: "Купить хлеб", EndDate: &end}
}

// TestValidate_TitleBoundaries тестирует границы длины заголовка
func TestValidate_TitleBoundaries(t *testing.T) {
	tests := []struct {
		length int
		valid  bool
	}{
		{0, false},
		{1, false},
		{2, true},
		{35, true},
		{36, false},
	}

	for _, tt := range tests {
		fields := validTodo()
		fields.Title = strings.Repeat("a", tt.length)

		errs := form.Validate(fields)
		_, hasErr := errs["title"]
		assert.Equal(t, !tt.valid, hasErr, "длина %d", tt.length)
	}
}

func TestValidate_TitleCountsRunes(t *testing.T) {
	fields := validTodo()
	fields.Title = strings.Repeat("ж", 35)
	assert.Empty(t, form.Validate(fields))
}

func TestValidate_DescriptionBoundaries(t *testing.T) {
	tests := []struct {
		length int
		valid  bool
	}{
		{0, true},
		{50, true},
		{51, false},
	}

	for _, tt := range tests {
		fields := validTodo()
		d := strings.Repeat("d", tt.length)
		fields.Description = &d

		_, hasErr := form.Validate(fields)["description"]
		assert.Equal(t, !tt.valid, hasErr, "длина %d", tt.length)
	}

	fields := validTodo()
	fields.Description = nil
	assert.Empty(t, form.Validate(fields))
}

// TestValidate_ReportsAllFields тестирует, что ошибки всех полей приходят разом
func TestValidate_ReportsAllFields(t *testing.T) {
	long := strings.Repeat("x", 51)
	errs := form.Validate(form.TodoFields{Title: "a", Description: &long})

	require.Len(t, errs, 3)
	assert.Contains(t, errs, "title")
	assert.Contains(t, errs, "description")
	assert.Equal(t, "Нужно выбрать дату", errs["end_date"])
}

func TestValidate_SignIn(t *testing.T) {
	tests := []struct {
		name   string
		fields form.SignInFields
		errs   []string
	}{
		{"ok", form.SignInFields{Email: "a@b.co", Password: "secret"}, nil},
		{"bad email", form.SignInFields{Email: "nope", Password: "secret"}, []string{"email"}},
		{"short password", form.SignInFields{Email: "a@b.co", Password: "12345"}, []string{"password"}},
		{"long password", form.SignInFields{Email: "a@b.co", Password: strings.Repeat("p", 31)}, []string{"password"}},
		{"empty", form.SignInFields{}, []string{"email", "password"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := form.Validate(tt.fields)
			assert.Len(t, errs, len(tt.errs))
			for _, field := range tt.errs {
				assert.Contains(t, errs, field)
			}
		})
	}
}

func TestValidate_SignUp(t *testing.T) {
	ok := form.SignUpFields{Name: "Ян", Email: "yan@example.com", Password: strings.Repeat("p", 50)}
	assert.Empty(t, form.Validate(ok))

	bad := form.SignUpFields{Name: "Я", Email: "yan@example.com", Password: strings.Repeat("p", 51)}
	errs := form.Validate(bad)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "password")
	assert.NotContains(t, errs, "email")
}

func TestCheck(t *testing.T) {
	assert.NoError(t, form.Check(validTodo()))

	err := form.Check(form.TodoFields{})
	var vErr *form.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "title")
	assert.Contains(t, err.Error(), "end_date")
}

// TestForm_Transitions тестирует переходы состояний формы
func TestForm_Transitions(t *testing.T) {
	ctx := context.Background()
	f := form.New(form.TodoFields{})
	assert.Equal(t, form.Untouched, f.State())

	f.Edit(func(v *form.TodoFields) { v.Title = "x" })
	assert.Equal(t, form.Editing, f.State())

	calls := 0
	action := func(ctx context.Context, v form.TodoFields) error {
		calls++
		return nil
	}

	err := f.Submit(ctx, action)
	var vErr *form.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, form.Invalid, f.State())
	assert.Zero(t, calls)
	assert.Contains(t, f.Errors(), "title")
	assert.Contains(t, f.Errors(), "end_date")

	// ошибки держатся до следующей отправки
	f.Edit(func(v *form.TodoFields) {
		*v = validTodo()
	})
	assert.Equal(t, form.Editing, f.State())
	assert.NotEmpty(t, f.Errors())

	require.NoError(t, f.Submit(ctx, action))
	assert.Equal(t, form.Valid, f.State())
	assert.Empty(t, f.Errors())
	assert.Equal(t, 1, calls)
	assert.False(t, f.Pending())

	f.Reset(form.TodoFields{})
	assert.Equal(t, form.Untouched, f.State())
	assert.Empty(t, f.Values().Title)
}

func TestForm_ActionErrorIsReturned(t *testing.T) {
	f := form.New(validTodo())
	boom := errors.New("store down")

	err := f.Submit(context.Background(), func(context.Context, form.TodoFields) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, f.Pending())
}

// TestForm_RejectsSubmitInFlight тестирует запрет повторной отправки
func TestForm_RejectsSubmitInFlight(t *testing.T) {
	ctx := context.Background()
	f := form.New(validTodo())

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- f.Submit(ctx, func(context.Context, form.TodoFields) error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started
	assert.True(t, f.Pending())
	err := f.Submit(ctx, func(context.Context, form.TodoFields) error { return nil })
	assert.ErrorIs(t, err, form.ErrSubmitInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, f.Pending())
}

package validation

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func studentValues(overrides map[string]string) url.Values {
	values := url.Values{
		"first_name": {"John"},
		"last_name":  {"Doe"},
		"email":      {"john@doe.com"},
		"age":        {"30"},
		"city":       {""},
	}
	for k, v := range overrides {
		values.Set(k, v)
	}
	return values
}

func requireFieldError(t *testing.T, err error, field string) []string {
	t.Helper()
	errs, ok := AsErrors(err)
	require.True(t, ok, "expected validation errors, got %v", err)
	require.Contains(t, errs, field)
	return errs[field]
}

// Registration

func TestValidateRegisterAccepts(t *testing.T) {
	form, err := ValidateRegister(url.Values{"username": {"  alice "}, "password": {"secret1"}})
	require.NoError(t, err)
	assert.Equal(t, "alice", form.Username)
	assert.Equal(t, "secret1", form.Password)
}

func TestValidateRegisterRequiresFields(t *testing.T) {
	_, err := ValidateRegister(url.Values{})
	assert.Equal(t, []string{MsgRequired}, requireFieldError(t, err, "username"))
	assert.Equal(t, []string{MsgRequired}, requireFieldError(t, err, "password"))
}

func TestValidateRegisterUsernameLength(t *testing.T) {
	tests := []struct {
		name     string
		username string
		valid    bool
	}{
		{"too short", "ab", false},
		{"min", "abc", true},
		{"max", strings.Repeat("a", 50), true},
		{"too long", strings.Repeat("a", 51), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateRegister(url.Values{"username": {tt.username}, "password": {"secret1"}})
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, []string{"Field must be between 3 and 50 characters long."}, requireFieldError(t, err, "username"))
		})
	}
}

func TestValidateRegisterPasswordLength(t *testing.T) {
	_, err := ValidateRegister(url.Values{"username": {"alice"}, "password": {"12345"}})
	assert.Equal(t, []string{"Field must be at least 6 characters long."}, requireFieldError(t, err, "password"))

	_, err = ValidateRegister(url.Values{"username": {"alice"}, "password": {"123456"}})
	assert.NoError(t, err)
}

func TestValidateRegisterRejectsBlankPassword(t *testing.T) {
	_, err := ValidateRegister(url.Values{"username": {"alice"}, "password": {"      "}})
	assert.Equal(t, []string{MsgRequired}, requireFieldError(t, err, "password"))
}

func TestValidateRegisterKeepsPasswordAsTyped(t *testing.T) {
	form, err := ValidateRegister(url.Values{"username": {"alice"}, "password": {" secret1 "}})
	require.NoError(t, err)
	assert.Equal(t, " secret1 ", form.Password)
}

// Login

func TestValidateLoginRejectsBlankPassword(t *testing.T) {
	_, err := ValidateLogin(url.Values{"username": {"alice"}, "password": {"   "}})
	assert.Equal(t, []string{MsgRequired}, requireFieldError(t, err, "password"))
}

func TestValidateLoginDoesNotCheckPasswordStrength(t *testing.T) {
	form, err := ValidateLogin(url.Values{"username": {"alice"}, "password": {"x"}})
	require.NoError(t, err)
	assert.Equal(t, "x", form.Password)
}

func TestValidateLoginRequiresFields(t *testing.T) {
	_, err := ValidateLogin(url.Values{"username": {"al"}})
	requireFieldError(t, err, "username")
	assert.Equal(t, []string{MsgRequired}, requireFieldError(t, err, "password"))
}

// Student

func TestValidateStudentAccepts(t *testing.T) {
	fields, err := ValidateStudent(studentValues(nil))
	require.NoError(t, err)
	assert.Equal(t, "John", fields.FirstName)
	assert.Equal(t, "Doe", fields.LastName)
	assert.Equal(t, "john@doe.com", fields.Email)
	require.NotNil(t, fields.Age)
	assert.Equal(t, 30, *fields.Age)
	assert.Empty(t, fields.City)
}

func TestValidateStudentRejectsDigitsInName(t *testing.T) {
	_, err := ValidateStudent(studentValues(map[string]string{"first_name": "John123"}))
	assert.Equal(t, []string{MsgLettersOnly}, requireFieldError(t, err, "first_name"))
}

func TestValidateStudentAllowsSpacesInName(t *testing.T) {
	fields, err := ValidateStudent(studentValues(map[string]string{"last_name": "Van Der Berg"}))
	require.NoError(t, err)
	assert.Equal(t, "Van Der Berg", fields.LastName)
}

func TestValidateStudentNameLength(t *testing.T) {
	_, err := ValidateStudent(studentValues(map[string]string{"last_name": "D"}))
	assert.Equal(t, []string{"Field must be between 2 and 50 characters long."}, requireFieldError(t, err, "last_name"))

	_, err = ValidateStudent(studentValues(map[string]string{"first_name": strings.Repeat("a", 51)}))
	requireFieldError(t, err, "first_name")
}

func TestValidateStudentRequiresNames(t *testing.T) {
	_, err := ValidateStudent(studentValues(map[string]string{"first_name": "  ", "last_name": ""}))
	assert.Equal(t, []string{MsgRequired}, requireFieldError(t, err, "first_name"))
	assert.Equal(t, []string{MsgRequired}, requireFieldError(t, err, "last_name"))
}

func TestValidateStudentAgeBoundaries(t *testing.T) {
	tests := []struct {
		age   string
		valid bool
	}{
		{"0", false},
		{"1", true},
		{"120", true},
		{"121", false},
		{"-5", false},
		{"abc", false},
		{"12.5", false},
	}

	for _, tt := range tests {
		t.Run(tt.age, func(t *testing.T) {
			fields, err := ValidateStudent(studentValues(map[string]string{"age": tt.age}))
			if tt.valid {
				require.NoError(t, err)
				require.NotNil(t, fields.Age)
				return
			}
			assert.Equal(t, []string{MsgInvalidAge}, requireFieldError(t, err, "age"))
		})
	}
}

func TestValidateStudentOptionalFieldsMayBeEmpty(t *testing.T) {
	fields, err := ValidateStudent(url.Values{"first_name": {"Jane"}, "last_name": {"Roe"}})
	require.NoError(t, err)
	assert.Nil(t, fields.Age)
	assert.Empty(t, fields.Email)
	assert.Empty(t, fields.City)
}

func TestValidateStudentRejectsBadEmail(t *testing.T) {
	_, err := ValidateStudent(studentValues(map[string]string{"email": "not-an-email"}))
	assert.Equal(t, []string{MsgInvalidEmail}, requireFieldError(t, err, "email"))
}

func TestValidateStudentEmailLength(t *testing.T) {
	local := strings.Repeat("a", 60)

	// 60 + 1 + 55 + 4 = 120 characters
	fields, err := ValidateStudent(studentValues(map[string]string{"email": local + "@" + strings.Repeat("b", 55) + ".com"}))
	require.NoError(t, err)
	assert.Len(t, fields.Email, 120)

	_, err = ValidateStudent(studentValues(map[string]string{"email": local + "@" + strings.Repeat("b", 56) + ".com"}))
	assert.Equal(t, []string{"Field cannot be longer than 120 characters."}, requireFieldError(t, err, "email"))
}

func TestValidateStudentCityLength(t *testing.T) {
	_, err := ValidateStudent(studentValues(map[string]string{"city": strings.Repeat("c", 51)}))
	assert.Equal(t, []string{"Field cannot be longer than 50 characters."}, requireFieldError(t, err, "city"))
}

func TestValidateStudentCollectsAllFieldErrors(t *testing.T) {
	_, err := ValidateStudent(url.Values{"first_name": {"J1"}, "age": {"500"}, "email": {"bad"}})
	errs, ok := AsErrors(err)
	require.True(t, ok)
	assert.Len(t, errs, 4)
	assert.Contains(t, errs.Error(), "validation failed")
}

func TestErrorsFirst(t *testing.T) {
	errs := Errors{}
	errs.Add("age", "one")
	errs.Add("age", "two")
	assert.Equal(t, "one", errs.First("age"))
	assert.Empty(t, errs.First("city"))
}

package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"mapforge/pkg/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNew() {
	testCases := []struct {
		name     string
		err      *errors.Error
		expected string
		code     errors.Code
	}{
		{
			name:     "invalid argument",
			err:      errors.InvalidArgument("width must be positive"),
			expected: "INVALID_ARGUMENT: width must be positive",
			code:     errors.CodeInvalidArgument,
		},
		{
			name:     "not found formatted",
			err:      errors.NotFoundf("snapshot %s not found", "abc"),
			expected: "NOT_FOUND: snapshot abc not found",
			code:     errors.CodeNotFound,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.expected, tc.err.Error())
			s.Equal(tc.code, errors.GetCode(tc.err))
		})
	}
}

func (s *ErrorsTestSuite) TestWrapKeepsCode() {
	base := errors.NotFound("missing").WithMeta("id", "42")
	wrapped := errors.Wrap(base, "load snapshot")

	s.Equal(errors.CodeNotFound, wrapped.Code)
	s.True(errors.IsNotFound(wrapped))
	s.Equal("42", errors.GetMeta(wrapped)["id"])
	s.ErrorIs(wrapped, errors.NotFound(""))
}

func (s *ErrorsTestSuite) TestWrapPlainError() {
	base := fmt.Errorf("connection refused")
	wrapped := errors.Wrapf(base, "save %d", 7)

	s.Equal(errors.CodeInternal, wrapped.Code)
	s.Equal(base, wrapped.Unwrap())
	s.Nil(errors.Wrap(nil, "nothing"))
}

func (s *ErrorsTestSuite) TestGetCodeForeignError() {
	s.Equal(errors.CodeOK, errors.GetCode(nil))
	s.Equal(errors.CodeUnknown, errors.GetCode(fmt.Errorf("boom")))
}

func (s *ErrorsTestSuite) TestValidationBuilder() {
	err := errors.NewValidationBuilder().
		RangeField("width", 2, 8, 1024).
		RangeField("height", 32, 8, 1024).
		RequiredField("seed").
		Build()

	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))

	fields, ok := errors.GetMeta(err)["fields"].(map[string][]string)
	s.Require().True(ok)
	s.Contains(fields, "width")
	s.Contains(fields, "seed")
	s.NotContains(fields, "height")
}

func (s *ErrorsTestSuite) TestValidationBuilderEmpty() {
	s.NoError(errors.NewValidationBuilder().FloatRangeField("p", 0.5, 0, 1).Build())
}

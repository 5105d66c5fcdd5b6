package vocabulary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/ardley/wordle-server/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.service = New(testutil.NopLogger())
}

func (s *ServiceSuite) TestNotLoadedByDefault() {
	s.False(s.service.Loaded())
	s.Equal(0, s.service.Len())
	s.False(s.service.Contains("chardonnay"))
}

func (s *ServiceSuite) TestLoadWords() {
	s.service.LoadWords([]string{"chardonnay", "hypotenuse"})

	s.True(s.service.Loaded())
	s.Equal(2, s.service.Len())
	s.True(s.service.Contains("chardonnay"))
	s.True(s.service.Contains("CHARDONNAY"))
	s.False(s.service.Contains("background"))
}

func (s *ServiceSuite) TestLoadWordsDeduplicates() {
	s.service.LoadWords([]string{"chardonnay", "Chardonnay"})
	s.Equal(1, s.service.Len())
}

func (s *ServiceSuite) TestIndexedAccess() {
	s.service.LoadWords([]string{"chardonnay", "hypotenuse", "background"})
	s.Equal("chardonnay", s.service.At(0))
	s.Equal("background", s.service.At(2))
}

func (s *ServiceSuite) TestLoadFromFile() {
	path := filepath.Join(s.T().TempDir(), "words.txt")
	content := "chardonnay\nhypotenuse\nshort\n\nbackground\n"
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o644))

	s.Require().NoError(s.service.LoadFromFile(path))

	// "short" has the wrong length and is skipped
	s.Equal(3, s.service.Len())
	s.False(s.service.Contains("short"))
	s.True(s.service.Contains("background"))
}

func (s *ServiceSuite) TestLoadFromMissingFile() {
	err := s.service.LoadFromFile(filepath.Join(s.T().TempDir(), "absent.txt"))
	s.Error(err)
	s.False(s.service.Loaded())
}

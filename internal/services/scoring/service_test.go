package scoring

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mmind/mastermind-go/internal/model"
)

type ServiceSuite struct {
	suite.Suite
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.service = New()
}

func (s *ServiceSuite) assertScore(secret, guess string, numbers, positions int) {
	s.T().Helper()
	score := s.service.Evaluate(secret, guess)
	s.Equal(numbers, score.CorrectNumbers, "correct numbers for %s vs %s", guess, secret)
	s.Equal(positions, score.CorrectPositions, "correct positions for %s vs %s", guess, secret)
}

func (s *ServiceSuite) TestExactMatch() {
	s.assertScore("1234", "1234", 4, 4)
	s.assertScore("765432", "765432", 6, 6)
}

func (s *ServiceSuite) TestAllPresentNoPositions() {
	s.assertScore("1122", "2211", 4, 0)
	s.assertScore("1234", "4321", 4, 0)
}

func (s *ServiceSuite) TestRepeatedGuessDigitCountsOnce() {
	s.assertScore("1234", "1111", 1, 1)
	s.assertScore("1234", "5111", 1, 0)
}

func (s *ServiceSuite) TestNoMatches() {
	s.assertScore("0000", "7777", 0, 0)
}

func (s *ServiceSuite) TestExactMatchesAreClaimedBeforeMisplaced() {
	// The trailing 1 in the guess is exact; the leading 1 must not steal it.
	s.assertScore("0201", "1001", 3, 2)
	s.assertScore("1100", "0011", 4, 0)
	s.assertScore("1120", "1212", 3, 1)
}

func (s *ServiceSuite) TestDoesNotMutateInputs() {
	secret, guess := "1122", "2211"
	s.service.Evaluate(secret, guess)
	s.Equal("1122", secret)
	s.Equal("2211", guess)
}

func (s *ServiceSuite) TestBoundsHoldForAllShortCodes() {
	// Every pair of length-2 codes over [0,7] and a sample of length-4 codes.
	digits := "01234567"
	for _, a := range digits {
		for _, b := range digits {
			for _, c := range digits {
				for _, d := range digits {
					secret := string([]rune{a, b})
					guess := string([]rune{c, d})
					score := Evaluate(secret, guess)
					s.LessOrEqual(score.CorrectPositions, score.CorrectNumbers)
					s.LessOrEqual(score.CorrectNumbers, 2)
					s.Equal(score, Evaluate(secret, guess))

					long := Evaluate(secret+guess, guess+secret)
					s.LessOrEqual(long.CorrectPositions, long.CorrectNumbers)
					s.LessOrEqual(long.CorrectNumbers, 4)
				}
			}
		}
	}
}

func (s *ServiceSuite) TestCorrectNumbersIsMultisetIntersection() {
	cases := [][2]string{
		{"0123", "3210"},
		{"7777", "7007"},
		{"112233", "332211"},
		{"010101", "101010"},
		{"4455", "5544"},
	}
	for _, tc := range cases {
		secret, guess := tc[0], tc[1]
		counts := map[byte]int{}
		for i := 0; i < len(secret); i++ {
			counts[secret[i]]++
		}
		want := 0
		for i := 0; i < len(guess); i++ {
			if counts[guess[i]] > 0 {
				counts[guess[i]]--
				want++
			}
		}
		s.Equal(want, Evaluate(secret, guess).CorrectNumbers, "%s vs %s", guess, secret)
	}
}

func (s *ServiceSuite) TestValidateGuess() {
	s.NoError(s.service.ValidateGuess("0123", 4))
	s.NoError(s.service.ValidateGuess("987654", 6))

	s.ErrorIs(s.service.ValidateGuess("1234567", 6), model.ErrGuessTooLong)
	s.ErrorIs(s.service.ValidateGuess("12a4", 4), model.ErrGuessNotDigits)
	s.ErrorIs(s.service.ValidateGuess("-123", 4), model.ErrGuessNotDigits)
	s.ErrorIs(s.service.ValidateGuess("123", 4), model.ErrGuessLengthMismatch)
	s.ErrorIs(s.service.ValidateGuess("12345", 4), model.ErrGuessLengthMismatch)
	s.ErrorIs(s.service.ValidateGuess("", 4), model.ErrGuessLengthMismatch)

	s.ErrorIs(s.service.ValidateGuess("1234567", 4), model.ErrInvalidInput)
}

func (s *ServiceSuite) TestValidateGuessFullWidthDigitsAreNotDigits() {
	// Four characters, twelve bytes
	s.ErrorIs(s.service.ValidateGuess("１２３４", 4), model.ErrGuessNotDigits)
	s.ErrorIs(s.service.ValidateGuess("12３4", 4), model.ErrGuessNotDigits)
	s.ErrorIs(s.service.ValidateGuess("1234567x", 4), model.ErrGuessNotDigits)
}

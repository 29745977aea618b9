package core

import (
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"github.com/sirupsen/logrus"
)

const (
	Greeting       = "Hello World Performance test 10 cloud GitHub"
	CalculatorView = "calculator"
	ErrorView      = "error"
)

// AddFunc is the arithmetic behind the calculator pages.
type AddFunc func(a, b int32) int32

// Add returns a + b. Overflow wraps around (two's complement).
func Add(a, b int32) int32 {
	return a + b
}

// GreetingHandler answers every request with the fixed greeting.
func GreetingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(Greeting))
}

type Calculator struct {
	add AddFunc
}

func NewCalculator(add AddFunc) *Calculator {
	if add == nil {
		add = Add
	}
	return &Calculator{add: add}
}

// Page renders the empty form.
func (c *Calculator) Page(r *http.Request) (string, map[string]interface{}, error) {
	return CalculatorView, map[string]interface{}{}, nil
}

// Calculate binds a and b and re-renders the form with their sum.
func (c *Calculator) Calculate(r *http.Request) (string, map[string]interface{}, error) {
	a, b, err := bindOperands(r.URL.Query())
	if err != nil {
		return "", nil, err
	}

	return CalculatorView, map[string]interface{}{
		"a":      a,
		"b":      b,
		"result": c.add(a, b),
	}, nil
}

type calculation struct {
	A      int32 `json:"a"`
	B      int32 `json:"b"`
	Result int32 `json:"result"`
}

type apiError struct {
	Error string `json:"error"`
	Param string `json:"param,omitempty"`
}

// CalculateJSON is the JSON twin of Calculate.
func (c *Calculator) CalculateJSON(w http.ResponseWriter, r *http.Request) {
	a, b, err := bindOperands(r.URL.Query())
	if err != nil {
		var be *BindError
		if errors.As(err, &be) {
			writeJSON(w, http.StatusBadRequest, apiError{Error: be.Error(), Param: be.Param})
			return
		}
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, calculation{A: a, B: b, Result: c.add(a, b)})
}

func bindOperands(values url.Values) (int32, int32, error) {
	a, err := RequiredInt32(values, "a")
	if err != nil {
		return 0, 0, err
	}
	b, err := RequiredInt32(values, "b")
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Warn("failed to encode json response")
	}
}

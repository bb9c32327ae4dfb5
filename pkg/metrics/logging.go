package metrics

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/sirupsen/logrus"
)

// LogFormatter forwards every entry to New Relic, fields included, and
// decorates the locally formatted line with New Relic linking metadata. The
// stock nrlogrus formatter drops entry fields.
type LogFormatter struct {
	app   *newrelic.Application
	inner logrus.Formatter
}

func NewLogFormatter(app *newrelic.Application, inner logrus.Formatter) *LogFormatter {
	return &LogFormatter{
		app:   app,
		inner: inner,
	}
}

func (f *LogFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	formatted, err := f.inner.Format(entry)
	if err != nil {
		return nil, err
	}

	logData := newrelic.LogData{
		Severity: entry.Level.String(),
		Message:  forwardedMessage(entry),
	}

	var txn *newrelic.Transaction
	if entry.Context != nil {
		txn = newrelic.FromContext(entry.Context)
	}

	buf := bytes.NewBuffer(bytes.TrimRight(formatted, "\n"))
	if txn != nil {
		txn.RecordLog(logData)
		err = newrelic.EnrichLog(buf, newrelic.FromTxn(txn))
	} else {
		f.app.RecordLog(logData)
		err = newrelic.EnrichLog(buf, newrelic.FromApp(f.app))
	}
	if err != nil {
		return nil, err
	}

	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// forwardedMessage folds the entry's error and fields into the message, since
// New Relic log data has no room for structured attributes.
func forwardedMessage(entry *logrus.Entry) string {
	if len(entry.Data) == 0 {
		return entry.Message
	}

	errorString := "<nil>"
	fields := make(map[string]interface{}, len(entry.Data))
	for key, value := range entry.Data {
		if err, ok := value.(error); ok && key == logrus.ErrorKey {
			errorString = fmt.Sprintf("%q", err.Error())
			continue
		}
		fields[key] = value
	}

	encoded, err := json.Marshal(fields)
	if err != nil {
		return entry.Message
	}
	return fmt.Sprintf("message=%q, error=%s, data=%s", entry.Message, errorString, encoded)
}

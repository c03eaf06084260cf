package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

// Subjects of the workflow notifications.
const (
	SubjectNewRequest = "New Asset Request"
	SubjectApproved   = "Request Approved"
	SubjectRejected   = "Request Rejected"
)

var newRequestTmpl = template.Must(template.New("new_request").Parse(`<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Asset Request Notification</h2>
  <p>Dear Approver,</p>
  <p>A new asset request has been submitted by <strong>{{.Requester}}</strong>. Please review the details below:</p>
  <table>
    <tr><th>Request Date</th><td>{{.Submitted.Format "2006-01-02 15:04:05"}}</td></tr>
    <tr><th>Requester</th><td>{{.Requester}}</td></tr>
    <tr><th>Item Requested</th><td>{{.Item}}</td></tr>
    <tr><th>Quantity Needed</th><td>{{.Qty}}</td></tr>
    <tr><th>Purpose / Justification</th><td>{{.Purpose}}</td></tr>
  </table>
  <p>Please log in to the Inventory Management System to approve or reject this request.</p>
  <p style="font-size: 0.8em; color: #777;">This is an automated message from the Inventory Assets Management System.</p>
</body>
</html>
`))

// NewRequestEmail is the data rendered into the approver notification.
type NewRequestEmail struct {
	Requester string
	Item      string
	Qty       int
	Purpose   string
	Submitted time.Time
}

// RenderNewRequest renders the HTML body sent to an approver. Values are escaped.
func RenderNewRequest(e NewRequestEmail) (string, error) {
	var buf bytes.Buffer
	if err := newRequestTmpl.Execute(&buf, e); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// DecisionBody is the plain-text body sent to the requester after a decision.
func DecisionBody(model string, approved bool) string {
	if approved {
		return fmt.Sprintf("Your request for %s has been approved.", model)
	}
	return fmt.Sprintf("Your request for %s has been rejected.", model)
}

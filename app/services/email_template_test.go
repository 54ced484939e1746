package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTicketEmail(t *testing.T) {
	html, err := RenderTicketEmail("Nguyễn Văn A", "VE-001", "data:image/png;base64,AAAA")
	require.NoError(t, err)

	assert.Contains(t, html, "Nguyễn Văn A")
	assert.Contains(t, html, "VE-001")
	assert.Contains(t, html, `src="data:image/png;base64,AAAA"`)
	assert.Contains(t, html, "Tổ Cò FC Phương Mỹ Chi")
}

func TestRenderTicketEmail_EscapesName(t *testing.T) {
	html, err := RenderTicketEmail("<script>alert(1)</script>", "VE-001", "data:image/png;base64,AAAA")
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestTicketEmailSubject(t *testing.T) {
	assert.Equal(t, "🎫 Mã vé sự kiện - VE-001", TicketEmailSubject("VE-001"))
}

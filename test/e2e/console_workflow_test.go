//go:build e2e
// +build e2e

package e2e_test

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/ammerola/stockroom-console/internal/workers"
	"github.com/ammerola/stockroom-console/test/helpers"
)

type ConsoleE2ESuite struct {
	suite.Suite
	console *helpers.TestConsole
	browser *helpers.Browser
}

func (s *ConsoleE2ESuite) SetupTest() {
	s.console = helpers.NewTestConsole(s.T())
	s.browser = s.console.NewBrowser(s.T())

	_, body := s.browser.Login("admin", "admin")
	s.Require().Contains(body, "Welcome, Test Admin")
}

func (s *ConsoleE2ESuite) TestCompleteItemWorkflow() {
	// 1. Create an item
	_, body := s.browser.PostForm("/items", url.Values{
		"itemName":   {"E2E Toner Cartridge"},
		"categoryId": {"2"},
		"quantity":   {"12"},
		"unitPrice":  {"8200.00"},
		"sku":        {"ST-E2E-1"},
	})
	s.Contains(body, "Item added successfully")
	s.Contains(body, "<strong>E2E Toner Cartridge</strong>")

	items := s.console.Backend.Items()
	s.Require().Len(items, 1)
	id := items[0].ID

	// 2. Search for it
	_, body = s.browser.Get("/items?q=toner")
	s.Contains(body, "<strong>E2E Toner Cartridge</strong>")

	// 3. Reduce stock below the reorder level
	resp, body := s.browser.PostForm(itemPath(id, "reduce-stock"), url.Values{"quantity": {"5"}, "return": {"/items"}})
	s.Equal("/items", resp.Request.URL.Path)
	s.Contains(body, "Stock reduced successfully")

	// 4. It shows up as low stock and can be replenished there
	_, body = s.browser.Get("/low-stock")
	s.Contains(body, "<td>E2E Toner Cartridge</td>")

	_, body = s.browser.PostForm(itemPath(id, "add-stock"), url.Values{"quantity": {"20"}})
	s.Contains(body, "Stock added successfully")
	s.Contains(body, "No low stock items")

	// 5. Update it
	_, body = s.browser.PostForm(itemPath(id, ""), url.Values{
		"itemName":  {"E2E Toner Cartridge XL"},
		"quantity":  {"27"},
		"unitPrice": {"9100.00"},
	})
	s.Contains(body, "Item updated successfully")

	// 6. Every change is in the activity log
	_, body = s.browser.Get("/activity-log")
	for _, action := range []string{"CREATE", "STOCK_OUT", "STOCK_IN", "UPDATE"} {
		s.Contains(body, ">"+action+"<")
	}

	// 7. Delete it
	_, body = s.browser.PostForm(itemPath(id, "delete"), nil)
	s.Contains(body, "Item deleted successfully")
	s.Contains(body, "No items found")
}

func (s *ConsoleE2ESuite) TestReportArchiveWorkflow() {
	s.console.Backend.SeedItems(helpers.CreateTestItems(5)...)

	_, body := s.browser.PostForm("/reports/value/archive", nil)
	s.Contains(body, "Report queued for archiving")

	tasks := s.console.Enqueuer.Tasks()
	s.Require().Len(tasks, 1)

	processor := workers.NewReportProcessor(s.console.Client, s.console.Reports, s.console.Archive, helpers.TestLogger())
	s.Require().NoError(processor.ArchiveReport(context.Background(), tasks[0]))

	keys, err := s.console.Archive.List(context.Background(), "reports/")
	s.Require().NoError(err)
	s.Require().Len(keys, 1)
	s.True(strings.HasSuffix(keys[0], ".csv"))
	s.Contains(keys[0], "report-value-")

	_, body = s.browser.Get("/reports")
	s.Contains(body, keys[0])
}

func (s *ConsoleE2ESuite) TestLogoutEndsSession() {
	_, body := s.browser.PostForm("/logout", nil)
	s.Contains(body, "Inventory Login")

	resp, _ := s.browser.NoRedirects().Get("/items")
	s.Equal(http.StatusSeeOther, resp.StatusCode)
}

func itemPath(id int, action string) string {
	path := fmt.Sprintf("/items/%d", id)
	if action != "" {
		path += "/" + action
	}
	return path
}

func TestConsoleE2E(t *testing.T) {
	suite.Run(t, new(ConsoleE2ESuite))
}

package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/sb-box-scores/internal/boxscore"
	"github.com/pfrederiksen/sb-box-scores/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const headerRow = `<tr><th>Team</th><th>1</th><th>2</th><th>3</th><th>4</th><th>Total</th></tr>`

// teamRow renders a team row the way footballdb lays it out
func teamRow(label string, scores ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<tr><td><span class="hidden-xs">Full %s</span><span class="visible-xs">%s</span></td>`, label, label)
	for _, s := range scores {
		fmt.Fprintf(&b, "<td>%s</td>", s)
	}
	b.WriteString("</tr>")
	return b.String()
}

func page(tables ...string) string {
	return `<html><body><div id="leftcol">` + strings.Join(tables, "\n") + `</div></body></html>`
}

func table(rows ...string) string {
	return "<table>" + strings.Join(rows, "") + "</table>"
}

func selectFirst(t *testing.T, markup, selector string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	sel := doc.Find(selector).First()
	require.Equal(t, 1, sel.Length(), "selector %q matched nothing", selector)
	return sel
}

func TestTransformRow(t *testing.T) {
	tests := []struct {
		name     string
		row      string
		wantName string
		wantConf boxscore.Conference
		want     [boxscore.Quarters]int
		wantKind Kind
	}{
		{
			name:     "conference suffix",
			row:      teamRow("Chiefs (AFC)", "7", "0", "3", "10", "20"),
			wantName: "Chiefs",
			wantConf: boxscore.AFC,
			want:     [boxscore.Quarters]int{7, 0, 3, 10},
		},
		{
			name:     "conference prefix",
			row:      teamRow("NFC Eagles", "0", "14", "7", "14"),
			wantName: "NFC",
			wantConf: boxscore.NFC,
			want:     [boxscore.Quarters]int{0, 14, 7, 14},
		},
		{
			name:     "whitespace around scores",
			row:      teamRow("Packers (NFL)", " 7\n", "\t7", "14 ", "7"),
			wantName: "Packers",
			wantConf: boxscore.NFL,
			want:     [boxscore.Quarters]int{7, 7, 14, 7},
		},
		{
			name:     "ambiguous label takes first conference",
			row:      teamRow("Raiders (AFL/AFC)", "0", "0", "0", "0"),
			wantName: "Raiders",
			wantConf: boxscore.AFC,
		},
		{
			name:     "unknown conference",
			row:      teamRow("Chiefs", "7", "0", "3", "10"),
			wantKind: KindUnknownConference,
		},
		{
			name:     "unknown conference wins over bad score",
			row:      teamRow("Chiefs (XFL)", "-", "0", "3", "10"),
			wantKind: KindUnknownConference,
		},
		{
			name:     "unknown conference wins over missing cells",
			row:      teamRow("Chiefs (XFL)", "7"),
			wantKind: KindUnknownConference,
		},
		{
			name:     "too few cells",
			row:      teamRow("Chiefs (AFC)", "7", "0", "3"),
			wantKind: KindMalformedRow,
		},
		{
			name:     "single span",
			row:      `<tr><td><span>Chiefs (AFC)</span></td><td>7</td><td>0</td><td>3</td><td>10</td></tr>`,
			wantKind: KindMalformedRow,
		},
		{
			name:     "non-numeric score",
			row:      teamRow("Chiefs (AFC)", "7", "-", "3", "10"),
			wantKind: KindBadScore,
		},
		{
			name:     "empty score",
			row:      teamRow("Chiefs (AFC)", "7", "0", "", "10"),
			wantKind: KindBadScore,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := selectFirst(t, table(tt.row), "tr")

			team, err := TransformRow(row)

			if tt.wantKind != "" {
				require.Error(t, err)
				assert.True(t, IsKind(err, tt.wantKind), "error %v is not %q", err, tt.wantKind)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantName, team.Name)
			assert.Equal(t, tt.wantConf, team.Conference)
			assert.Equal(t, tt.want, team.BoxScore)
		})
	}
}

func TestTransformRow_UnknownConferenceNamesLabel(t *testing.T) {
	row := selectFirst(t, table(teamRow("Chiefs KC", "7", "0", "3", "10")), "tr")

	_, err := TransformRow(row)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Chiefs KC")

	var unknown *boxscore.UnknownConferenceError
	assert.True(t, errors.As(err, &unknown))
}

func TestTransformRow_UnknownConferenceBeforeScores(t *testing.T) {
	row := selectFirst(t, table(teamRow("Chiefs (XFL)", "-", "x", "3", "10")), "tr")

	_, err := TransformRow(row)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, KindUnknownConference, pe.Kind)
	assert.Equal(t, "Chiefs (XFL)", pe.Detail)
	assert.Contains(t, err.Error(), "Chiefs (XFL)")
}

func TestTransformRow_WarnsOnAmbiguousLabel(t *testing.T) {
	var logs bytes.Buffer
	logger.SetDefault(logger.New(logger.LevelWarn, &logs))
	defer logger.SetDefault(logger.New(logger.LevelInfo, os.Stderr))

	row := selectFirst(t, table(teamRow("Raiders (AFL/AFC)", "0", "14", "0", "0")), "tr")

	team, err := TransformRow(row)
	require.NoError(t, err)
	assert.Equal(t, boxscore.AFC, team.Conference)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(logs.Bytes()), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "Label matches more than one conference", entry["msg"])
	assert.Equal(t, "Raiders (AFL/AFC)", entry["label"])
	assert.Equal(t, "AFC", entry["chosen"])
	assert.Equal(t, []interface{}{"AFC", "AFL"}, entry["matches"])
}

func TestTransformRow_SingleConferenceDoesNotWarn(t *testing.T) {
	var logs bytes.Buffer
	logger.SetDefault(logger.New(logger.LevelWarn, &logs))
	defer logger.SetDefault(logger.New(logger.LevelInfo, os.Stderr))

	row := selectFirst(t, table(teamRow("Chiefs (AFC)", "7", "0", "3", "10")), "tr")

	_, err := TransformRow(row)
	require.NoError(t, err)
	assert.Zero(t, logs.Len())
}

func TestTransformTable(t *testing.T) {
	markup := table(
		headerRow,
		teamRow("Chiefs (AFC)", "7", "0", "3", "10"),
		teamRow("Eagles (NFC)", "0", "14", "7", "14"),
	)

	game, err := TransformTable(selectFirst(t, markup, "table"))
	require.NoError(t, err)

	assert.Equal(t, "Chiefs,AFC,7,0,3,10", game.Teams[0].Serialize())
	assert.Equal(t, "Eagles,NFC,0,14,7,14", game.Teams[1].Serialize())
}

func TestTransformTable_RowCount(t *testing.T) {
	tests := []struct {
		name string
		rows []string
	}{
		{"header only", []string{headerRow}},
		{"one team", []string{headerRow, teamRow("Chiefs (AFC)", "7", "0", "3", "10")}},
		{"extra row", []string{
			headerRow,
			teamRow("Chiefs (AFC)", "7", "0", "3", "10"),
			teamRow("Eagles (NFC)", "0", "14", "7", "14"),
			teamRow("Bills (AFC)", "0", "0", "0", "0"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TransformTable(selectFirst(t, table(tt.rows...), "table"))

			require.Error(t, err)
			assert.True(t, IsKind(err, KindRowCount), "error %v is not a row count error", err)
		})
	}
}

func TestTransformTable_AnnotatesRow(t *testing.T) {
	markup := table(
		headerRow,
		teamRow("Chiefs (AFC)", "7", "0", "3", "10"),
		teamRow("Eagles", "0", "14", "7", "14"),
	)

	_, err := TransformTable(selectFirst(t, markup, "table"))

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 3, pe.Row)
	assert.Equal(t, KindUnknownConference, pe.Kind)
}

func TestLocateContainer(t *testing.T) {
	tests := []struct {
		name    string
		markup  string
		wantErr error
	}{
		{
			name:   "found",
			markup: page(),
		},
		{
			name:    "missing",
			markup:  `<html><body><div id="content"></div></body></html>`,
			wantErr: ErrContainerNotFound,
		},
		{
			name:    "id on a non-div element",
			markup:  `<html><body><section id="leftcol"></section></body></html>`,
			wantErr: ErrContainerNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(tt.markup))
			require.NoError(t, err)

			container, err := LocateContainer(doc, ContainerID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, container)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "div", goquery.NodeName(container))
		})
	}
}

func TestCheckElement_TextNode(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<p>just text</p>`))
	require.NoError(t, err)

	text := doc.Find("p").Contents()
	require.Equal(t, 1, text.Length())

	assert.ErrorIs(t, checkElement(text), ErrContainerNotElement)
	assert.NoError(t, checkElement(doc.Find("p")))
}

func TestFindTables_DocumentOrder(t *testing.T) {
	markup := page(
		`<table id="a"></table>`,
		`<div><table id="b"></table></div>`,
		`<table id="c"></table>`,
	)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	container, err := LocateContainer(doc, ContainerID)
	require.NoError(t, err)

	tables := FindTables(container)

	ids := make([]string, 0, len(tables))
	for _, tbl := range tables {
		id, _ := tbl.Attr("id")
		ids = append(ids, id)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestParsePage(t *testing.T) {
	markup := page(
		table(headerRow, teamRow("Chiefs (AFC)", "7", "0", "3", "10"), teamRow("Eagles (NFC)", "0", "14", "7", "14")),
		table(headerRow, teamRow("Rams (NFC)", "0", "13", "3", "7"), teamRow("Bengals (AFC)", "3", "7", "10", "0")),
	)

	games, err := ParsePage(strings.NewReader(markup), ContainerID)
	require.NoError(t, err)
	require.Len(t, games, 2)

	assert.Equal(t, "Chiefs", games[0].Teams[0].Name)
	assert.Equal(t, "Bengals", games[1].Teams[1].Name)
}

func TestParsePage_NoTables(t *testing.T) {
	games, err := ParsePage(strings.NewReader(page()), ContainerID)

	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestParsePage_StopsAtMalformedTable(t *testing.T) {
	markup := page(
		table(headerRow, teamRow("Chiefs (AFC)", "7", "0", "3", "10"), teamRow("Eagles (NFC)", "0", "14", "7", "14")),
		table(headerRow, teamRow("Rams (NFC)", "0", "13", "3", "7")),
	)

	games, err := ParsePage(strings.NewReader(markup), ContainerID)

	assert.Nil(t, games)
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, KindRowCount, pe.Kind)
	assert.Equal(t, 2, pe.Table)
	assert.Contains(t, err.Error(), "table 2")
}

func TestParsePage_MissingContainer(t *testing.T) {
	_, err := ParsePage(strings.NewReader(`<html><body></body></html>`), ContainerID)

	assert.ErrorIs(t, err, ErrContainerNotFound)
}

func TestFetchGames(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		statusCode int
		wantGames  int
		wantErr    error
	}{
		{
			name:       "successful fetch",
			body:       page(table(headerRow, teamRow("Chiefs (AFC)", "7", "0", "3", "10"), teamRow("Eagles (NFC)", "0", "14", "7", "14"))),
			statusCode: http.StatusOK,
			wantGames:  1,
		},
		{
			name:       "error status is still parsed",
			body:       page(table(headerRow, teamRow("Chiefs (AFC)", "7", "0", "3", "10"), teamRow("Eagles (NFC)", "0", "14", "7", "14"))),
			statusCode: http.StatusServiceUnavailable,
			wantGames:  1,
		},
		{
			name:       "error page without container",
			body:       "<html><body>Not Found</body></html>",
			statusCode: http.StatusNotFound,
			wantErr:    ErrContainerNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Empty(t, r.URL.RawQuery)

				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			s := New(WithURL(server.URL))
			games, err := s.FetchGames(context.Background())

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, games, tt.wantGames)
		})
	}
}

func TestFetch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	s := New(WithURL(server.URL), WithTimeout(20*time.Millisecond))
	_, err := s.Fetch(context.Background())

	assert.Error(t, err)
}

func TestFetch_ConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := New(WithURL(url)).Fetch(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetching page")
}

func TestNew(t *testing.T) {
	s := New()

	require.NotNil(t, s)
	assert.NotNil(t, s.client)
	assert.Zero(t, s.client.Timeout, "no timeout unless configured")
	assert.Equal(t, SuperBowlsURL, s.URL())
	assert.Equal(t, UserAgent, s.userAgent)
	assert.Equal(t, ContainerID, s.containerID)

	custom := New(WithUserAgent("test-agent"), WithContainerID("scores"), WithTimeout(time.Second))
	assert.Equal(t, "test-agent", custom.userAgent)
	assert.Equal(t, "scores", custom.containerID)
	assert.Equal(t, time.Second, custom.client.Timeout)
}

func TestParseError_Message(t *testing.T) {
	err := &ParseError{Kind: KindBadScore, Table: 4, Row: 2, Detail: `Q2 "x"`}
	assert.Equal(t, `parse table 4 row 2: bad score: Q2 "x"`, err.Error())

	bare := &ParseError{Kind: KindRowCount}
	assert.Equal(t, "parse: unexpected row count", bare.Error())
}

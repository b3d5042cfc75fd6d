package run

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/dtnitsch/quotes-etl/models"
	"github.com/dtnitsch/quotes-etl/pkg/analytics"
	"github.com/dtnitsch/quotes-etl/pkg/pipeline"
	"github.com/dtnitsch/quotes-etl/pkg/report"
)

// SummaryTable is the metrics table printed after a run.
func SummaryTable(res pipeline.Result) pterm.TableData {
	m := res.Metrics
	return pterm.TableData{
		{"Metric", "Value"},
		{"Run", res.RunID},
		{"State", res.State.String()},
		{"Pages scraped", strconv.Itoa(m.PagesScraped)},
		{"Quotes extracted", strconv.Itoa(m.QuotesExtracted)},
		{"Quotes cleaned", strconv.Itoa(m.QuotesCleaned)},
		{"Duplicates removed", strconv.Itoa(m.DuplicatesRemoved)},
		{"Invalid quotes", strconv.Itoa(m.InvalidRecords)},
		{"Errors", strconv.Itoa(m.ErrorsEncountered)},
		{"Valid quotes", strconv.Itoa(len(res.Valid))},
		{"Unique authors", strconv.Itoa(res.Report.UniqueAuthors)},
		{"Unique tags", strconv.Itoa(res.Report.UniqueTags)},
		{"Avg words", fmt.Sprintf("%.2f", res.Report.AvgWordCount)},
		{"Avg characters", fmt.Sprintf("%.2f", res.Report.AvgCharacterCount)},
	}
}

// RankingTable renders a top-N ranking with its position.
func RankingTable(title string, counts models.Counts) pterm.TableData {
	data := pterm.TableData{{"#", title, "Count"}}
	for i, c := range counts {
		data = append(data, []string{strconv.Itoa(i + 1), c.Key, strconv.Itoa(c.Count)})
	}
	return data
}

func PrintSummary(res pipeline.Result, files []string) error {
	pterm.DefaultSection.Println("Run summary")
	if err := pterm.DefaultTable.WithHasHeader().WithData(SummaryTable(res)).Render(); err != nil {
		return err
	}

	if len(res.Report.TopAuthors) > 0 {
		pterm.DefaultSection.WithLevel(2).Println("Top authors")
		if err := pterm.DefaultTable.WithHasHeader().WithData(RankingTable("Author", res.Report.TopAuthors)).Render(); err != nil {
			return err
		}
	}
	if len(res.Report.TopTags) > 0 {
		pterm.DefaultSection.WithLevel(2).Println("Top tags")
		if err := pterm.DefaultTable.WithHasHeader().WithData(RankingTable("Tag", res.Report.TopTags)).Render(); err != nil {
			return err
		}
	}

	if words := analytics.TopWords(res.Valid, report.DefaultTopN); len(words) > 0 {
		pterm.DefaultSection.WithLevel(2).Println("Top words")
		if err := pterm.DefaultTable.WithHasHeader().WithData(RankingTable("Word", words)).Render(); err != nil {
			return err
		}
	}

	if len(files) > 0 {
		items := make([]pterm.BulletListItem, 0, len(files))
		for _, f := range files {
			items = append(items, pterm.BulletListItem{Level: 0, Text: f})
		}
		pterm.DefaultSection.WithLevel(2).Println("Files")
		if err := pterm.DefaultBulletList.WithItems(items).Render(); err != nil {
			return err
		}
	}

	if res.Err != nil {
		pterm.Error.Println(res.Err.Error())
	} else if res.Partial() {
		pterm.Warning.Println("run completed with errors or without valid quotes")
	} else {
		pterm.Success.Println("run completed")
	}
	return nil
}

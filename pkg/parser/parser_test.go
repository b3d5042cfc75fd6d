package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Quotes to Scrape</title>
</head>
<body>
  <div class="container">
    <div class="row header-box">
      <h1><a href="/">Quotes to Scrape</a></h1>
    </div>
    <div class="row">
      <div class="col-md-8">
        <div class="quote">
          <span class="text">“The world as we have created it is a process of our thinking. It cannot be changed without changing our thinking.”</span>
          <span>by <small class="author">Albert Einstein</small> <a href="/author/Albert-Einstein">(about)</a></span>
          <p>Tags: change, deep-thoughts, thinking, world. This paragraph is long enough to count as readable content for the parser, with commas, and more commas.</p>
        </div>
      </div>
    </div>
  </div>
</body>
</html>`

func TestPageMeta(t *testing.T) {
	p := &Parser{}

	meta, err := p.PageMeta("http://quotes.toscrape.com/page/1/", []byte(page))
	require.NoError(t, err)

	assert.Equal(t, "http://quotes.toscrape.com/page/1/", meta.URL)
	assert.Contains(t, meta.Title, "Quotes to Scrape")
	assert.NotContains(t, meta.Title, "\n")
}

func TestPageMeta_BadURL(t *testing.T) {
	p := &Parser{}
	_, err := p.PageMeta("http://bad host/%zz", []byte(page))
	assert.Error(t, err)
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "a b c", normalizeText("  a\n\tb   c "))
	assert.Equal(t, "", normalizeText(" \n "))
}

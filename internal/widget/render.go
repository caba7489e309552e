package widget

import (
	"bytes"
	"html/template"

	"shopmate/internal/shell"
	"shopmate/internal/shopclient"
)

const timeLayout = "03:04 PM"

var transcriptTmpl = template.Must(template.New("transcript").Funcs(template.FuncMap{
	"money": shell.FormatCurrency,
}).Parse(`{{range .}}{{if eq .Kind "user"}}
<div class="message user-message">
  <div class="flex justify-end">
    <div class="bg-indigo-600 text-white rounded-2xl rounded-tr-sm px-4 py-3 max-w-md shadow-lg">
      <p class="whitespace-pre-wrap">{{.Text}}</p>
      <div class="text-xs text-indigo-200 mt-1" title="{{.Stamp}}">{{.Time}}</div>
    </div>
    <div class="w-8 h-8 bg-indigo-600 rounded-full flex items-center justify-center ml-3 flex-shrink-0"><i class="fas fa-user text-white text-sm"></i></div>
  </div>
</div>{{else if eq .Kind "products"}}
<div class="message bot-message">
  <div class="flex">
    <div class="w-8 h-8 bg-gray-600 rounded-full flex items-center justify-center mr-3 flex-shrink-0"><i class="fas fa-robot text-white text-sm"></i></div>
    <div class="max-w-2xl">
      <div class="products-grid mt-4">{{range .Products}}
        <div class="product-card">
          <div class="bg-white border rounded-lg p-4 shadow-sm hover:shadow-md transition-shadow duration-200">
            <h4 class="font-medium text-gray-900 mb-2">{{.Title}}</h4>
            <p class="text-lg font-bold text-indigo-600 mb-3">{{money .Price}}</p>
            <button type="submit" form="cartForm" formaction="/chat/cart/{{.ID}}" class="add-to-cart-btn w-full bg-indigo-600 hover:bg-indigo-700 text-white px-4 py-2 rounded-lg text-sm font-medium"><i class="fas fa-cart-plus mr-2"></i>Add to Cart</button>
          </div>
        </div>{{end}}
      </div>
    </div>
  </div>
</div>{{else}}
<div class="message bot-message{{if eq .Kind "error"}} error-message{{end}}">
  <div class="flex">
    <div class="w-8 h-8 bg-gray-600 rounded-full flex items-center justify-center mr-3 flex-shrink-0"><i class="fas fa-robot text-white text-sm"></i></div>
    <div class="{{if eq .Kind "error"}}bg-red-50 border-red-200 text-red-700{{else}}bg-white border{{end}} rounded-2xl rounded-tl-sm px-4 py-3 max-w-md shadow-lg">
      <div class="prose prose-sm max-w-none">{{.HTML}}</div>
      <div class="text-xs text-gray-500 mt-1" title="{{.Stamp}}">{{.Time}}</div>
    </div>
  </div>
</div>{{end}}{{end}}`))

type renderItem struct {
	Kind     string
	Text     string
	HTML     template.HTML
	Time     string
	Stamp    string
	Products []shopclient.Product
}

// Render maps the transcript to markup. User text is escaped by the template;
// bot text goes through FormatBot.
func Render(entries []Entry) (template.HTML, error) {
	items := make([]renderItem, 0, len(entries))
	for _, e := range entries {
		it := renderItem{Time: e.At().Format(timeLayout), Stamp: shell.FormatDate(e.At())}
		switch v := e.(type) {
		case UserMessage:
			it.Kind, it.Text = "user", v.Text
		case BotMessage:
			it.Kind, it.HTML = "bot", FormatBot(v.Text)
		case ErrorMessage:
			it.Kind, it.HTML = "error", FormatBot(v.Text)
		case ProductCardBlock:
			it.Kind, it.Products = "products", v.Products
		default:
			continue
		}
		items = append(items, it)
	}
	var buf bytes.Buffer
	if err := transcriptTmpl.Execute(&buf, items); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

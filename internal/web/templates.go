package web

import (
    "bytes"
    "html/template"
    "log"
    "net/http"

    "github.com/google/uuid"
    "github.com/jaminalder/perfect-tic-tac-toe/internal/domain"
)

type templates struct {
    base  *template.Template
    game  *template.Template
    board *template.Template
    index *template.Template
}

// boardView is the data handed to the board fragment.
type boardView struct {
    ID    string
    Game  domain.Game
    Error string
}

func funcs() template.FuncMap {
    return template.FuncMap{
        "iter": func(n int) []int { a := make([]int, n); for i := range a { a[i] = i }; return a },
        "cellSymbol": func(c domain.Cell) string { return c.String() },
        "highlight": highlight,
        "status": status,
        "add": func(a, b int) int { return a + b },
        "mul": func(a, b int) int { return a * b },
    }
}

// highlight names the colour for cell i: the winning line is blue when the
// human won and red when the AI won, and the whole board is green on a tie.
func highlight(g domain.Game, i int) string {
    switch {
    case g.Tie:
        return "green"
    case g.Line.Won:
        for _, idx := range g.Line.Line {
            if idx != i {
                continue
            }
            if g.Winner == g.Human {
                return "blue"
            }
            return "red"
        }
    }
    return ""
}

func status(g domain.Game) string {
    switch {
    case g.Tie:
        return "Tie game"
    case g.Over && g.Winner == g.Human:
        return "You win"
    case g.Over:
        return "AI wins"
    case g.HumanToMove():
        return "Your move (" + g.Human.String() + ")"
    }
    return "AI to move"
}

func loadTemplates() *templates {
    base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tic-Tac-Toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
<style>
.row{display:flex}.row form{margin:0}
.cell{width:4rem;height:4rem;font-size:2rem}
.blue{background-color:blue}.red{background-color:red}.green{background-color:green}
</style>
</head><body>{{template "content" .}}</body></html>`))
    // Define the board template within the same set so game can include it
    template.Must(base.New("board").Funcs(funcs()).Parse(boardTemplate))
    index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Tic-Tac-Toe</h1><form action="/game" method="post"><button>New game</button></form>`))
    game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" hx-sse="connect:/game/{{.ID}}/events">
  <div hx-sse="swap:board">{{template "board" .Board}}</div>
</div>
<p><a href="/game/{{.ID}}/board.png">board image</a></p>`))
    // Standalone board template used for fragment rendering
    board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
    return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
    var buf bytes.Buffer
    var err error
    if name == "" {
        err = t.Execute(&buf, data)
    } else {
        err = t.ExecuteTemplate(&buf, name, data)
    }
    if err != nil {
        log.Printf("[web] render %s: %v", t.Name(), err)
    }
    return buf.Bytes()
}

const boardTemplate = `
<div id="board">
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  <div class="status">{{status .Game}}</div>
  {{/* 3x3 grid */}}
  {{range $r := iter 3}}
  <div class="row">
    {{range $c := iter 3}}
      {{$i := add (mul $r 3) $c}}
      <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" action="/game/{{$.ID}}/play" method="post">
        <input type="hidden" name="r" value="{{$r}}">
        <input type="hidden" name="c" value="{{$c}}">
        <button type="submit" class="cell {{highlight $.Game $i}}" data-index="{{$i}}">{{cellSymbol (index $.Game.Board $i)}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  <form hx-post="/game/{{.ID}}/reset" hx-target="#board" hx-swap="outerHTML" action="/game/{{.ID}}/reset" method="post">
    <button type="submit">Restart</button>
  </form>
</div>
`

// Helper to set cookie
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
    if c, err := r.Cookie("player_id"); err == nil && c.Value != "" {
        return c.Value
    }
    // Generate UUIDv4 for player ID
    v := uuid.NewString()
    http.SetCookie(w, &http.Cookie{Name: "player_id", Value: v, Path: "/"})
    return v
}

package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Query constructor de peticiones PostgREST sobre una tabla o vista.
//
//	c.From("companies").Select("*").Eq("id", id).Single().Execute(ctx, &company)
type Query struct {
	c      *Client
	table  string
	method string
	params url.Values
	orders []string
	body   any
	token  string
	single bool
	prefer []string
}

// From inicia una consulta sobre table.
func (c *Client) From(table string) *Query {
	return &Query{c: c, table: table, method: http.MethodGet, params: url.Values{}}
}

// WithToken ejecuta la consulta con el access token del usuario (RLS). Vacío = rol anónimo.
func (q *Query) WithToken(token string) *Query {
	q.token = token
	return q
}

// Select columnas y recursos embebidos, p. ej. "*, company:companies(name)".
func (q *Query) Select(columns string) *Query {
	q.params.Set("select", strings.Join(strings.Fields(columns), ""))
	return q
}

func (q *Query) filter(column, op string, value any) *Query {
	q.params.Add(column, op+"."+fmt.Sprint(value))
	return q
}

func (q *Query) Eq(column string, value any) *Query  { return q.filter(column, "eq", value) }
func (q *Query) Neq(column string, value any) *Query { return q.filter(column, "neq", value) }
func (q *Query) Gt(column string, value any) *Query  { return q.filter(column, "gt", value) }
func (q *Query) Gte(column string, value any) *Query { return q.filter(column, "gte", value) }
func (q *Query) Lt(column string, value any) *Query  { return q.filter(column, "lt", value) }
func (q *Query) Lte(column string, value any) *Query { return q.filter(column, "lte", value) }

// Is filtra por null, true o false.
func (q *Query) Is(column, value string) *Query { return q.filter(column, "is", value) }

// In filtra por pertenencia a values.
func (q *Query) In(column string, values []string) *Query {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		if strings.ContainsAny(v, `,()" `) {
			v = `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
		}
		quoted = append(quoted, v)
	}
	return q.filter(column, "in", "("+strings.Join(quoted, ",")+")")
}

// Order agrega un criterio de orden.
func (q *Query) Order(column string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	q.orders = append(q.orders, column+"."+dir)
	return q
}

// Limit máximo de filas.
func (q *Query) Limit(n int) *Query {
	q.params.Set("limit", strconv.Itoa(n))
	return q
}

// Single exige exactamente una fila; si no, el backend responde PGRST116 (domain.ErrNotFound).
func (q *Query) Single() *Query {
	q.single = true
	return q
}

// Insert inserta body (objeto o slice) y devuelve las filas insertadas.
func (q *Query) Insert(body any) *Query {
	q.method = http.MethodPost
	q.body = body
	q.prefer = append(q.prefer, "return=representation")
	return q
}

// Update aplica body a las filas que cumplan los filtros.
func (q *Query) Update(body any) *Query {
	q.method = http.MethodPatch
	q.body = body
	q.prefer = append(q.prefer, "return=representation")
	return q
}

// Delete elimina las filas que cumplan los filtros.
func (q *Query) Delete() *Query {
	q.method = http.MethodDelete
	q.prefer = append(q.prefer, "return=minimal")
	return q
}

func (q *Query) build() request {
	params := url.Values{}
	for k, v := range q.params {
		params[k] = v
	}
	if len(q.orders) > 0 {
		params.Set("order", strings.Join(q.orders, ","))
	}
	r := request{
		method:  q.method,
		path:    "/rest/v1/" + q.table,
		query:   params,
		body:    q.body,
		token:   q.token,
		headers: map[string]string{},
	}
	if len(q.prefer) > 0 {
		r.headers["Prefer"] = strings.Join(q.prefer, ",")
	}
	if q.single {
		r.headers["Accept"] = "application/vnd.pgrst.object+json"
	}
	return r
}

// Execute ejecuta la consulta y decodifica la respuesta en dest (puede ser nil).
func (q *Query) Execute(ctx context.Context, dest any) error {
	resp, err := q.c.do(ctx, q.build())
	if err != nil {
		return err
	}
	return decode(resp.body, dest)
}

// First ejecuta la consulta como lista limitada a una fila. found es false si no hay filas.
func (q *Query) First(ctx context.Context, dest any) (found bool, err error) {
	q.single = false
	q.Limit(1)
	var rows []json.RawMessage
	if err := q.Execute(ctx, &rows); err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return false, nil
	}
	return true, decode(rows[0], dest)
}

// Count devuelve el número exacto de filas que cumplen los filtros sin traerlas.
func (q *Query) Count(ctx context.Context) (int, error) {
	q.method = http.MethodHead
	q.prefer = append(q.prefer, "count=exact")
	resp, err := q.c.do(ctx, q.build())
	if err != nil {
		return 0, err
	}
	return parseContentRange(resp.header.Get("Content-Range"))
}

// parseContentRange lee el total de "0-9/42" o "*/0".
func parseContentRange(v string) (int, error) {
	i := strings.LastIndex(v, "/")
	if i < 0 || i == len(v)-1 {
		return 0, fmt.Errorf("supabase: Content-Range inválido %q", v)
	}
	total := v[i+1:]
	if total == "*" {
		return 0, fmt.Errorf("supabase: total desconocido en Content-Range %q", v)
	}
	n, err := strconv.Atoi(total)
	if err != nil {
		return 0, fmt.Errorf("supabase: Content-Range inválido %q", v)
	}
	return n, nil
}

package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "name").
		From("leagues").
		Where(Eq("invite_code", "ABCD2345"), Expr("is_active = ?", true)).
		OrderBy("created_at").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, name FROM leagues WHERE invite_code = $1 AND is_active = $2 ORDER BY created_at LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "ABCD2345" || args[1] != true {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_ForUpdate(t *testing.T) {
	query, args, err := Select("*").
		From("leagues").
		Where(Eq("id", "lg-1")).
		ForUpdate().
		ToSQL()
	if err != nil {
		t.Fatalf("build select for update: %v", err)
	}

	wantQuery := "SELECT * FROM leagues WHERE id = $1 FOR UPDATE"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestIn(t *testing.T) {
	query, args, err := Select("id").
		From("cyclists").
		Where(In("id", []string{"c1", "c2"}), Expr("min_price > ?", 10)).
		ToSQL()
	if err != nil {
		t.Fatalf("build in query: %v", err)
	}

	wantQuery := "SELECT id FROM cyclists WHERE id IN ($1, $2) AND min_price > $3"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[2] != 10 {
		t.Fatalf("unexpected args: %+v", args)
	}

	empty, _, err := Select("id").From("cyclists").Where(In[string]("id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build empty in query: %v", err)
	}
	if empty != "SELECT id FROM cyclists WHERE 1=0" {
		t.Fatalf("unexpected empty in query: %s", empty)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("team_cyclists").
		Columns("league_id", "cyclist_id").
		Values("lg-1", "c-1").
		Suffix("ON CONFLICT (league_id, cyclist_id) DO NOTHING").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO team_cyclists (league_id, cyclist_id) VALUES ($1, $2) ON CONFLICT (league_id, cyclist_id) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "lg-1" || args[1] != "c-1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel(t *testing.T) {
	model := struct {
		ID       string `db:"id"`
		Name     string `db:"name"`
		Internal string
		Skipped  string `db:"-"`
	}{ID: "c-1", Name: "Pogacar"}

	query, args, err := InsertModel("cyclists", model, "")
	if err != nil {
		t.Fatalf("build insert model: %v", err)
	}
	if query != "INSERT INTO cyclists (id, name) VALUES ($1, $2)" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("auction_bids").
		Set("status", "won").
		SetExpr("resolved_at", "NOW()").
		Where(Eq("id", "b1"), Eq("status", "pending")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE auction_bids SET status = $1, resolved_at = NOW() WHERE id = $2 AND status = $3"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "won" || args[1] != "b1" || args[2] != "pending" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestIn_TypedValues(t *testing.T) {
	type status string

	query, args, err := Update("auction_bids").
		Set("status", status("won")).
		Where(In("status", []status{"pending"}), In("round_number", []int{1, 2})).
		ToSQL()
	if err != nil {
		t.Fatalf("build update with in: %v", err)
	}

	wantQuery := "UPDATE auction_bids SET status = $1 WHERE status IN ($2) AND round_number IN ($3, $4)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[1] != status("pending") || args[3] != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

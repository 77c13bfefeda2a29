package catalog

// Guide is a read-only text page shown before a topic is chosen.
type Guide struct {
	Title    string    `json:"title"`
	Summary  string    `json:"summary"`
	Sections []Section `json:"sections"`
}

// Section is one titled block of a Guide.
type Section struct {
	Heading string   `json:"heading"`
	Body    string   `json:"body,omitempty"`
	Items   []string `json:"items,omitempty"`
}

// Introduction covers database basics and the families of SQL commands.
var Introduction = Guide{
	Title: "Welcome to SQL",
	Summary: "SQL (Structured Query Language) is the language used to talk to a database. " +
		"With SQL you can read data, insert new rows, update them and delete them.",
	Sections: []Section{
		{
			Heading: "Database basics",
			Body: "A database is a structured collection of data stored in a computer system. " +
				"Data is organised in tables made of rows (records) and columns (fields). " +
				"A database can span several tables that relate to each other.",
		},
		{
			Heading: "A short history",
			Body: "SQL became the standard database language of the American National Standards " +
				"Institute (ANSI) in 1986 and of the International Organization for Standardization " +
				"(ISO) in 1987. MySQL is one of the many popular systems that speak SQL.",
		},
		{
			Heading: "Kinds of SQL commands",
			Items: []string{
				"Data Definition Language (DDL): manages structure (CREATE, ALTER, DROP).",
				"Data Manipulation Language (DML): works with data (INSERT, UPDATE, DELETE, SELECT).",
				"Data Control Language (DCL): manages access rights (GRANT, REVOKE).",
				"Transaction Control Language (TCL): manages transactions (COMMIT, ROLLBACK).",
			},
		},
		{
			Heading: "What SQL is used for",
			Items: []string{
				"Fetching data from a database quickly.",
				"Inserting records.",
				"Updating records.",
				"Deleting records.",
				"Creating new databases.",
				"Granting access to tables, procedures and views.",
			},
		},
	},
}

// Overview is the materials page listing the first lessons.
var Overview = Guide{
	Title:   "SQL materials",
	Summary: "Each lesson explains one SQL concept and lets you run queries against fresh sample data.",
	Sections: []Section{
		{Heading: "1. SELECT", Body: "SELECT reads data from a table."},
		{Heading: "2. WHERE", Body: "WHERE filters rows by a condition."},
		{Heading: "3. ORDER BY", Body: "ORDER BY sorts the rows of a result."},
		{Body: "Pick any topic from the list to continue."},
	},
}

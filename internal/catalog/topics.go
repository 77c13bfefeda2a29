package catalog

func builtinTopics() []Topic {
	return []Topic{
		{
			ID:           "SELECT",
			Title:        "SELECT in SQL",
			Description:  "Retrieves data from a table in the database.\n\nExample: `SELECT * FROM Customers;` returns every row of the Customers table.",
			ExampleQuery: "SELECT * FROM Customers;",
		},
		{
			ID:           "WHERE",
			Title:        "WHERE in SQL",
			Description:  "Filters rows that match a condition.\n\nExample: `SELECT * FROM Customers WHERE Age > 30;` returns the customers older than 30.",
			ExampleQuery: "SELECT * FROM Customers WHERE Age > 30;",
		},
		{
			ID:           "ORDER BY",
			Title:        "ORDER BY in SQL",
			Description:  "Sorts the result by one or more columns.\n\nExample: `SELECT * FROM Customers ORDER BY Name ASC;` sorts customers by name in ascending order.",
			ExampleQuery: "SELECT * FROM Customers ORDER BY Name ASC;",
		},
		{
			ID:           "GROUP BY",
			Title:        "GROUP BY in SQL",
			Description:  "Groups rows that share the values of one or more columns.\n\nExample: `SELECT City, COUNT(*) FROM Customers GROUP BY City;` counts customers per city.",
			ExampleQuery: "SELECT City, COUNT(*) FROM Customers GROUP BY City;",
		},
		{
			ID:           "HAVING",
			Title:        "HAVING in SQL",
			Description:  "Filters groups after GROUP BY.\n\nExample: `SELECT City, COUNT(*) FROM Customers GROUP BY City HAVING COUNT(*) > 3;` keeps only cities with more than 3 customers.",
			ExampleQuery: "SELECT City, COUNT(*) FROM Customers GROUP BY City HAVING COUNT(*) > 3;",
		},
		{
			ID:          "INNER JOIN",
			Title:       "INNER JOIN in SQL",
			Description: "Combines rows from two tables where the join condition matches in both.\n\nOnly customers that placed an order appear in the result.",
			ExampleQuery: "SELECT Customers.CustomerID, Customers.Name, Customers.City, Orders.OrderID, Orders.Product, Orders.Amount\n" +
				"FROM Customers\nINNER JOIN Orders ON Customers.CustomerID = Orders.CustomerID;",
			MultiTable: true,
		},
		{
			ID:          "LEFT JOIN",
			Title:       "LEFT JOIN in SQL",
			Description: "Returns every row of the left table plus the matching rows of the right table.\n\nCustomers without an order get NULL in the order columns.",
			ExampleQuery: "SELECT c.CustomerID, c.Name, o.OrderID, o.Product\n" +
				"FROM Customers c\nLEFT JOIN Orders o ON c.CustomerID = o.CustomerID;",
			MultiTable: true,
		},
		{
			ID:          "RIGHT JOIN",
			Title:       "RIGHT JOIN in SQL",
			Description: "Returns every row of the right table plus the matching rows of the left table.\n\nIt mirrors LEFT JOIN with the tables swapped.",
			ExampleQuery: "SELECT o.OrderID, o.Product, c.CustomerID, c.Name\n" +
				"FROM Orders o\nRIGHT JOIN Customers c ON o.CustomerID = c.CustomerID;",
			MultiTable: true,
		},
		{
			ID:          "FULL OUTER JOIN",
			Title:       "FULL OUTER JOIN in SQL",
			Description: "Returns all rows from both tables, matched where possible.\n\nUnmatched rows on either side are filled with NULL.",
			ExampleQuery: "SELECT c.CustomerID, c.Name, o.OrderID, o.Product\n" +
				"FROM Customers c\nFULL OUTER JOIN Orders o ON c.CustomerID = o.CustomerID;",
			MultiTable: true,
		},
		{
			ID:           "INSERT",
			Title:        "INSERT in SQL",
			Description:  "Adds new rows to a table.\n\nRun `SELECT * FROM Customers;` afterwards to see the new customer.",
			ExampleQuery: "INSERT INTO Customers (CustomerID, Name, Age, City, JoinDate) VALUES (41, 'Alice', 25, 'Jakarta', '2023-05-17');",
		},
		{
			ID:           "UPDATE",
			Title:        "UPDATE in SQL",
			Description:  "Changes values in existing rows.\n\nAlways pair UPDATE with a WHERE clause unless every row should change.",
			ExampleQuery: "UPDATE Customers SET City = 'Bandung' WHERE CustomerID = 1;",
		},
		{
			ID:           "DELETE",
			Title:        "DELETE in SQL",
			Description:  "Removes rows from a table.\n\nWithout a WHERE clause every row is deleted.",
			ExampleQuery: "DELETE FROM Customers WHERE Age < 20;",
		},
		{
			ID:           "DISTINCT",
			Title:        "DISTINCT in SQL",
			Description:  "Removes duplicate rows from the result.",
			ExampleQuery: "SELECT DISTINCT City FROM Customers;",
			Quiz:         true,
			Challenge:    "List every city that has at least one customer, without duplicates.",
		},
		{
			ID:           "LIMIT",
			Title:        "LIMIT in SQL",
			Description:  "Caps the number of rows returned.",
			ExampleQuery: "SELECT * FROM Customers ORDER BY CustomerID LIMIT 5;",
			Quiz:         true,
			Challenge:    "Show the first five customers by CustomerID.",
		},
		{
			ID:           "ALIAS",
			Title:        "ALIAS in SQL",
			Description:  "Gives a column or table a temporary name with AS.",
			ExampleQuery: "SELECT Name AS CustomerName, City AS Location FROM Customers;",
			Quiz:         true,
			Challenge:    "Show every customer's name as CustomerName and city as Location.",
		},
		{
			ID:          "UNION",
			Title:       "UNION in SQL",
			Description: "Combines the results of two queries and removes duplicates.",
			ExampleQuery: "SELECT Name FROM Customers WHERE City = 'Jakarta'\n" +
				"UNION\nSELECT Name FROM Customers WHERE City = 'Bandung';",
			Quiz:      true,
			Challenge: "List the distinct names of customers living in Jakarta or Bandung using UNION.",
		},
		{
			ID:          "CASE",
			Title:       "CASE in SQL",
			Description: "Chooses a value per row based on conditions, like if/else.",
			ExampleQuery: "SELECT Name, Age,\n" +
				"  CASE WHEN Age < 30 THEN 'Young' WHEN Age < 45 THEN 'Adult' ELSE 'Senior' END AS AgeGroup\n" +
				"FROM Customers;",
			Quiz:      true,
			Challenge: "Label each customer Young (under 30), Adult (under 45) or Senior.",
		},
		{
			ID:          "EXISTS",
			Title:       "EXISTS in SQL",
			Description: "Tests whether a subquery returns any row.",
			ExampleQuery: "SELECT * FROM Customers c\n" +
				"WHERE EXISTS (SELECT 1 FROM Customers d WHERE d.City = c.City AND d.CustomerID <> c.CustomerID);",
			Quiz:      true,
			Challenge: "Find the customers who share their city with at least one other customer.",
		},
		{
			ID:           "SUBQUERY",
			Title:        "SUBQUERY in SQL",
			Description:  "Uses the result of one query inside another.",
			ExampleQuery: "SELECT * FROM Customers WHERE Age > (SELECT AVG(Age) FROM Customers);",
			Quiz:         true,
			Challenge:    "Find the customers older than the average customer age.",
		},
	}
}

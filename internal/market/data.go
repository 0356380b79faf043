package market

// Rangos salariales por direccion de carrera y banda de años (unidad: 만원).
var salaryData = []SalaryBand{
	{"dev", "0-2", 3200, 4500},
	{"dev", "3-5", 4500, 6500},
	{"dev", "6-9", 6000, 9000},
	{"dev", "10-14", 8000, 12000},
	{"dev", "15+", 10000, 18000},

	{"design", "0-2", 2800, 3800},
	{"design", "3-5", 3800, 5500},
	{"design", "6-9", 5000, 7500},
	{"design", "10-14", 7000, 10000},
	{"design", "15+", 9000, 15000},

	{"pm", "0-2", 3000, 4200},
	{"pm", "3-5", 4200, 6000},
	{"pm", "6-9", 5500, 8500},
	{"pm", "10-14", 8000, 12000},
	{"pm", "15+", 10000, 17000},

	{"marketing", "0-2", 2800, 3800},
	{"marketing", "3-5", 3800, 5500},
	{"marketing", "6-9", 5000, 7500},
	{"marketing", "10-14", 7000, 10000},
	{"marketing", "15+", 9000, 14000},

	{"data", "0-2", 3500, 4800},
	{"data", "3-5", 5000, 7000},
	{"data", "6-9", 6500, 9500},
	{"data", "10-14", 8500, 13000},
	{"data", "15+", 11000, 18000},

	{"other", "0-2", 2800, 3800},
	{"other", "3-5", 3800, 5500},
	{"other", "6-9", 5000, 7500},
	{"other", "10-14", 7000, 10000},
	{"other", "15+", 8000, 14000},
}

// Niveles de demanda 1-10 por skill y direccion.
var skillDemand = []SkillDemand{
	{"dev", "Python", 9},
	{"dev", "JavaScript", 9},
	{"dev", "TypeScript", 9},
	{"dev", "React", 9},
	{"dev", "Next.js", 8},
	{"dev", "Node.js", 8},
	{"dev", "Java", 8},
	{"dev", "Spring", 8},
	{"dev", "Kotlin", 7},
	{"dev", "Go", 7},
	{"dev", "Rust", 7},
	{"dev", "AWS", 9},
	{"dev", "Docker", 8},
	{"dev", "Kubernetes", 8},
	{"dev", "PostgreSQL", 7},
	{"dev", "MongoDB", 6},
	{"dev", "Redis", 7},
	{"dev", "GraphQL", 6},
	{"dev", "Flutter", 7},
	{"dev", "Swift", 6},
	{"dev", "AI/ML", 10},
	{"dev", "LLM", 10},
	{"dev", "DevOps", 8},
	{"dev", "CI/CD", 7},

	{"design", "Figma", 10},
	{"design", "UI/UX", 9},
	{"design", "Product Design", 9},
	{"design", "Design System", 8},
	{"design", "Prototyping", 7},
	{"design", "User Research", 8},
	{"design", "Motion Design", 6},
	{"design", "Adobe Suite", 6},

	{"pm", "Product Strategy", 9},
	{"pm", "Data Analysis", 8},
	{"pm", "A/B Testing", 7},
	{"pm", "Agile/Scrum", 8},
	{"pm", "SQL", 7},
	{"pm", "Growth Hacking", 7},

	{"data", "Python", 10},
	{"data", "SQL", 9},
	{"data", "Machine Learning", 9},
	{"data", "Deep Learning", 8},
	{"data", "Spark", 7},
	{"data", "Tableau", 6},
	{"data", "Statistics", 8},
}

package interview

// DefaultVocabulary is the skill keyword list matched against answers.
// Keywords are matched as substrings of normalized text, so short entries that
// hide inside ordinary words ("go", "r", "excel", "rust", "agile") are left out.
var DefaultVocabulary = []string{
	// languages
	"python", "javascript", "typescript", "java", "golang", "c++", "c#", "kotlin",
	"ruby", "php", "swift", "sql", "html", "css",
	// frameworks and libraries
	"react", "angular", "vue.js", "node.js", "django", "flask", "spring boot",
	"pandas", "numpy", "tensorflow", "pytorch", "graphql",
	// data stores
	"postgresql", "mysql", "mongodb", "redis",
	// infrastructure and tools
	"docker", "kubernetes", "terraform", "linux", "amazon web services",
	"google cloud", "azure", "github", "gitlab", "jira", "figma", "photoshop",
	"tableau", "power bi", "salesforce", "microsoft excel", "microsoft office",
	"google analytics",
	// practices
	"machine learning", "data analysis", "data visualization", "project management",
	"scrum", "kanban", "ux design", "marketing", "accounting",
	// soft skills
	"leadership", "communication", "teamwork", "problem solving", "public speaking",
	"customer service", "time management", "mentoring",
}

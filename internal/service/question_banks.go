package service

import "github.com/skillified/skillified-api/internal/models"

// Exam identifiers known to the engine. The course creation flow refuses
// exam ids outside this set.
const (
	ExamIntroductionToPython = "Introduction to Python"
	ExamMachineLearning      = "Machine Learning"
	ExamBlockchainAndWeb3    = "Blockchain & Web3"
)

// questionBanks holds the fixed, ordered question sets. Question and option
// order is load-bearing: grading compares selected indexes against the
// correct index under the original ordering.
var questionBanks = map[string]models.QuestionBank{
	ExamIntroductionToPython: {
		ExamID: ExamIntroductionToPython,
		Questions: []models.Question{
			{ID: 1, Prompt: "What is the correct way to comment a line in Python?", Options: []string{"// this is a comment", "/* this is a comment */", "# this is a comment"}, CorrectIndex: 2},
			{ID: 2, Prompt: "What data type is the result of: 5 + 3.14?", Options: []string{"int", "float", "str"}, CorrectIndex: 1},
			{ID: 3, Prompt: "How do you create a function in Python?", Options: []string{"def function_name():", "function function_name()", "function function_name:{}"}, CorrectIndex: 0},
			{ID: 4, Prompt: "Which of the following is not a valid variable name?", Options: []string{"my_var", "my-var", "myVar"}, CorrectIndex: 1},
			{ID: 5, Prompt: "How do you create a list in Python?", Options: []string{"list = {}", "list = []", "list = ()"}, CorrectIndex: 1},
			{ID: 6, Prompt: "What will the output be: print(10 % 3)?", Options: []string{"3", "1", "0"}, CorrectIndex: 1},
			{ID: 7, Prompt: "Which method would you use to add an item to the end of a list?", Options: []string{"push()", "add()", "append()"}, CorrectIndex: 2},
			{ID: 8, Prompt: "How do you start a loop that continues until `i` is 5?", Options: []string{"while i < 5:", "while (i < 5)", "while i = 5:"}, CorrectIndex: 0},
			{ID: 9, Prompt: "How do you import a library in Python?", Options: []string{"import library_name", "using library_name", "#include library_name"}, CorrectIndex: 0},
			{ID: 10, Prompt: "Which function is used to read user input?", Options: []string{"input()", "read()", "scan()"}, CorrectIndex: 0},
		},
	},
	ExamMachineLearning: {
		ExamID: ExamMachineLearning,
		Questions: []models.Question{
			{ID: 1, Prompt: "Which of the following is a supervised learning method?", Options: []string{"K-Means", "Linear Regression", "PCA"}, CorrectIndex: 1},
			{ID: 2, Prompt: "What is the commonly used loss function for classification problems?", Options: []string{"Mean Squared Error", "Cross-Entropy", "Both of the above"}, CorrectIndex: 1},
			{ID: 3, Prompt: "Which of the following is not a type of machine learning?", Options: []string{"Supervised Learning", "Unsupervised Learning", "Uncontrolled Learning"}, CorrectIndex: 2},
			{ID: 4, Prompt: "What does SVM stand for in machine learning?", Options: []string{"Simple Vector Machine", "Support Vector Machine", "Sequential Vector Machine"}, CorrectIndex: 1},
			{ID: 5, Prompt: "Which algorithm is used to partition an unlabeled dataset?", Options: []string{"K-Means Clustering", "Linear Regression", "Logistic Regression"}, CorrectIndex: 0},
			{ID: 6, Prompt: "In machine learning, what does overfitting refer to?", Options: []string{"Model performs poorly on unseen data", "Model performs well on unseen data", "Model performs equally on all data"}, CorrectIndex: 0},
			{ID: 7, Prompt: "What is the goal of regression in machine learning?", Options: []string{"Classify data into categories", "Predict a continuous value", "Group data into clusters"}, CorrectIndex: 1},
			{ID: 8, Prompt: "Which of the following is a popular neural network framework?", Options: []string{"TensorFlow", "Pandas", "Scikit-learn"}, CorrectIndex: 0},
			{ID: 9, Prompt: "What is the process of dividing data into training and testing sets called?", Options: []string{"Data Splitting", "Data Cleaning", "Data Extraction"}, CorrectIndex: 0},
			{ID: 10, Prompt: "Which of the following algorithms relies on Bayes theorem?", Options: []string{"Naive Bayes", "Random Forest", "Gradient Boosting"}, CorrectIndex: 0},
		},
	},
	ExamBlockchainAndWeb3: {
		ExamID: ExamBlockchainAndWeb3,
		Questions: []models.Question{
			{ID: 1, Prompt: "What does the term \"Blockchain\" refer to?", Options: []string{"A type of database", "A programming language", "A web framework"}, CorrectIndex: 0},
			{ID: 2, Prompt: "What is the primary cryptocurrency used on the Ethereum network?", Options: []string{"Bitcoin", "Ether", "Litecoin"}, CorrectIndex: 1},
			{ID: 3, Prompt: "What is the standard for creating smart contracts on Ethereum?", Options: []string{"ERC-20", "Solidity", "ERC-721"}, CorrectIndex: 1},
			{ID: 4, Prompt: "Which of the following is a decentralized app (dApp)?", Options: []string{"Facebook", "Google Maps", "CryptoKitties"}, CorrectIndex: 2},
			{ID: 5, Prompt: "Which consensus algorithm is commonly used in public blockchains?", Options: []string{"Proof of Work", "Proof of Identity", "Proof of Stake"}, CorrectIndex: 0},
			{ID: 6, Prompt: "What is a smart contract?", Options: []string{"A legal document", "A self-executing contract with code", "A type of cryptocurrency"}, CorrectIndex: 1},
			{ID: 7, Prompt: "What is the main advantage of decentralized systems?", Options: []string{"Speed", "Censorship resistance", "Ease of use"}, CorrectIndex: 1},
			{ID: 8, Prompt: "What does Web3 enable users to do?", Options: []string{"Create websites", "Interact with decentralised networks", "Speed up internet connection"}, CorrectIndex: 1},
			{ID: 9, Prompt: "What is a hard fork in blockchain?", Options: []string{"A security feature", "A type of wallet", "A major update that is not backward compatible"}, CorrectIndex: 2},
			{ID: 10, Prompt: "Which programming language is commonly used to write Ethereum smart contracts?", Options: []string{"Python", "Java", "Solidity"}, CorrectIndex: 2},
		},
	},
}

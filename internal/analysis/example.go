package analysis

// ExamplePlan pre-fills the editor so a first-time user can press Analyze.
const ExamplePlan = `# Project: Real-time User Analytics Dashboard

## 1. Overview
This system will track user clicks on a website and display them on a real-time dashboard.

## 2. Components
- **Frontend:** A React single-page application (SPA).
- **API:** A single Node.js monolith running on a single EC2 instance. It will have two endpoints:
  - ` + "`POST /event`" + `: Receives click data.
  - ` + "`GET /dashboard`" + `: Uses websockets to push data to the frontend.
- **Database:** A PostgreSQL database on the same EC2 instance as the API. It stores all click events in a single table.

## 3. Data Flow
1. User clicks on the website.
2. React app sends a request to ` + "`POST /event`" + `.
3. The Node.js API writes the event to the PostgreSQL database.
4. The API also pushes the event over a websocket to all connected dashboard clients.
`

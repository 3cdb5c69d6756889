package prompt

// SystemInstruction frames the model as a reviewer for every request.
const SystemInstruction = "You are an expert QA engineer and senior software developer. " +
	"Your task is to meticulously review the provided source code (in the uploaded ZIP file) " +
	"against the given user story and its acceptance criteria."

// CriteriaFallback is substituted for {ACCEPTANCE_CRITERIA} when no criteria
// file was given, asking the model to infer them from the story.
const CriteriaFallback = "(The acceptance criteria are likely embedded within or implied by the user story. Please infer them as best as possible.)"

// TemplateStandard is the full-review prompt used when the work is expected
// to be complete.
const TemplateStandard = `**User Story:**
{USER_STORY}

**Acceptance Criteria:**
{ACCEPTANCE_CRITERIA}

**Source Code:**
The complete source code for the project/feature is provided in the uploaded ZIP file(s).
{ZIP_FILES_LIST}
File Name on Server (Resource Name): {ZIP_FILE_1_NAME}
Display Name: {ZIP_FILE_1_DISPLAY_NAME}
URI for Model Access: {ZIP_FILE_1_URI}

**Your Task:**
1. Thoroughly analyze the source code accessible via the provided file URI.
2. Verify if all stated acceptance criteria have been met.
3. Verify if all changes requested in the user story have been successfully implemented.
4. Identify any deviations, bugs, or areas where the implementation does not align.
5. Comment on code quality and potential improvements, prioritizing verification of completion.

**Output Format:**
Provide a structured feedback report:

1.  **Overall Assessment:**
    *   **Status:** ` + "`" + `[e.g., "Ticket Goals Met", "Ticket Partially Met", "Significant Issues Found - Not Met"]` + "`" + `
    *   **Summary:** ` + "`" + `[Provide a 1-2 sentence high-level summary of the review findings.]` + "`" + `

2.  **Detailed Findings (if any discrepancies):**
    *   *(For each issue/discrepancy found):*
        *   **Issue:** ` + "`" + `[Brief description of the problem or deviation.]` + "`" + `
        *   **Reference:** ` + "`" + `[Link to relevant User Story/Ticket ID or Acceptance Criterion #.]` + "`" + `
        *   **Code Evidence:** ` + "`" + `[Cite specific file(s) and line number(s) where the issue is observed, if applicable.]` + "`" + `
        *   **Impact:** ` + "`" + `[Briefly explain the consequence of this issue.]` + "`" + `

3.  **Positive Confirmations (if applicable):**
    *   ` + "`" + `[List any key criteria or goals that were successfully met.]` + "`" + `

4.  **Conclusion & Readiness for Next Steps:**
    *   **Is the ticket complete as per its definition?** ` + "`" + `[Yes/No/Partially]` + "`" + `
    *   **Are we ready to proceed?** ` + "`" + `[Yes/No/No, requires addressing the following...]` + "`" + `

5.  **Actionable Next Steps for Developer:**
    *   ` + "`" + `[Provide a clear, ordered list of specific actions needed to meet the ticket's goals. Be precise.]` + "`" + `
`

// TemplateInProgress is the review prompt for work that is known to be
// incomplete; it asks for course-correction guidance instead of a verdict.
const TemplateInProgress = `**User Story:**
{USER_STORY}

**Acceptance Criteria:**
{ACCEPTANCE_CRITERIA}

**Source Code (In-Progress):**
The current in-progress source code for the project/feature is provided in the uploaded ZIP file(s).
{ZIP_FILES_LIST}
File Name on Server (Resource Name): {ZIP_FILE_1_NAME}
Display Name: {ZIP_FILE_1_DISPLAY_NAME}
URI for Model Access: {ZIP_FILE_1_URI}

**Review Focus (In-Progress Work):**
This review is for work that is **not yet complete**. The primary goals are:
1. To assess if the current direction aligns with the ticket's objectives and architectural goals.
2. To identify any potential deviations or roadblocks early.
3. To provide constructive feedback to keep the development on track.

**Your Task:**
1. Analyze the current state of the source code accessible via the provided file URI.
2. Evaluate the implemented portions against the relevant acceptance criteria and user story goals (understanding they may not all be met yet).
3. Identify areas where the current implementation is **well-aligned** with the intended architecture and goals.
4. Identify any **potential deviations, risks, or areas needing course correction** to meet the final goals.
5. Offer feedback on code quality and potential improvements, focusing on guiding the ongoing work.

**Output Format (In-Progress Review):**
Provide a structured feedback report:

1.  **Overall Progress Assessment:**
    *   **Current Direction:** ` + "`" + `[e.g., "On Track with Ticket Goals", "Generally Aligned, Minor Adjustments Suggested", "Potential Misalignment, Course Correction Recommended"]` + "`" + `
    *   **Summary:** ` + "`" + `[Provide a 1-2 sentence high-level summary of the current progress and alignment.]` + "`" + `

2.  **Areas of Strong Alignment / Positive Progress:**
    *   ` + "`" + `[List specific aspects of the current implementation that are progressing well.]` + "`" + `

3.  **Areas for Attention / Potential Course Correction (Constructive Feedback):**
    *   *(For each area needing attention):*
        *   **Observation/Concern:** ` + "`" + `[Brief description of the observation or potential issue.]` + "`" + `
        *   **Reference (Intended Goal):** ` + "`" + `[Link to relevant User Story/Ticket ID or Acceptance Criterion #.]` + "`" + `
        *   **Code Evidence (Current State):** ` + "`" + `[Cite specific file(s) and line number(s) if applicable.]` + "`" + `
        *   **Suggestion/Guidance:** ` + "`" + `[Provide constructive advice to guide the developer.]` + "`" + `

4.  **Key Considerations for Next Steps (Guidance, not Demands for Completion):**
    *   ` + "`" + `[Highlight 1-3 critical aspects the developer should focus on next.]` + "`" + `

5.  **General Code Quality Feedback (Optional, if noteworthy at this stage):**
    *   ` + "`" + `[Brief comments on code style, clarity, or refactoring opportunities.]` + "`" + `

**Concluding Remark:**
*   ` + "`" + `[A brief, encouraging closing statement, reiterating the focus on guidance for ongoing work.]` + "`" + `
`
